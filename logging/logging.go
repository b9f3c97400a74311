/*
NAME
  logging.go

DESCRIPTION
  logging.go defines the Logger interface and a process-wide Dispatcher
  with an init -> ready -> teardown lifecycle, matching the Logger shape
  ausocean-av's revid package defines locally, generalized into its own
  package so every component of this library (not just one pipeline) can
  share a single sink.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package logging provides a small leveled Logger interface and a
// process-wide Dispatcher that fans log calls out to one or more sinks.
package logging

import "sync"

// Level mirrors the int8 level ausocean-av's revid.Logger uses.
type Level int8

const (
	Debug Level = iota
	Info
	Warning
	Error
	Fatal
)

// Logger is the leveled logging interface every component takes as a
// dependency, matching revid.Logger's SetLevel/Log shape.
type Logger interface {
	SetLevel(level Level)
	Log(level Level, message string, params ...interface{})
}

// Sink receives dispatched log entries. FileSink is the concrete
// lumberjack-backed implementation; tests typically use a simple
// slice-collecting sink instead.
type Sink interface {
	Write(level Level, message string, params []interface{})
}

// dispatcherState names the Dispatcher's position in its lifecycle.
type dispatcherState int

const (
	stateInit dispatcherState = iota
	stateReady
	stateTorndown
)

// Dispatcher is a process-wide Logger fanning out to any number of
// registered Sinks, with an explicit init -> ready -> teardown lifecycle:
// Register only succeeds before Ready, Log only succeeds at or after
// Ready, and once Teardown runs the dispatcher refuses further calls.
type Dispatcher struct {
	mu    sync.Mutex
	state dispatcherState
	level Level
	sinks []Sink
}

// NewDispatcher returns a Dispatcher in its init state, accepting
// Register calls but not yet Log calls.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{level: Info}
}

// Register adds a sink. Valid only before Ready is called.
func (d *Dispatcher) Register(s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != stateInit {
		return
	}
	d.sinks = append(d.sinks, s)
}

// Ready transitions the dispatcher into serving Log calls.
func (d *Dispatcher) Ready() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == stateInit {
		d.state = stateReady
	}
}

// Teardown stops serving Log calls; any sink implementing io.Closer-like
// cleanup is the caller's responsibility to close before or after this
// call, not the dispatcher's.
func (d *Dispatcher) Teardown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = stateTorndown
}

func (d *Dispatcher) SetLevel(level Level) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.level = level
}

// Log fans message out to every registered sink, if the dispatcher is
// ready and level meets the configured threshold.
func (d *Dispatcher) Log(level Level, message string, params ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != stateReady || level < d.level {
		return
	}
	for _, s := range d.sinks {
		s.Write(level, message, params)
	}
}
