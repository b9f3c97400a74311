/*
NAME
  dvdgraph.go

DESCRIPTION
  dvdgraph.go implements the DVD graph (C10): the top-level pipeline
  wiring demux -> detect -> decode -> process -> dejitter/encode, deciding
  per frame whether the current stream is eligible for S/PDIF passthrough
  or must be decoded and re-encoded as PCM.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dvdgraph implements the top-level DVD/Blu-ray audio processing
// pipeline.
package dvdgraph

import (
	"github.com/pkg/errors"

	"github.com/elxarus/valib/bassredir"
	"github.com/elxarus/valib/codec/ac3"
	"github.com/elxarus/valib/codec/dts"
	"github.com/elxarus/valib/codec/flac"
	"github.com/elxarus/valib/codec/mlp"
	"github.com/elxarus/valib/codec/mpa"
	"github.com/elxarus/valib/container/ps"
	"github.com/elxarus/valib/container/spdif"
	"github.com/elxarus/valib/filter"
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/header"
	"github.com/elxarus/valib/mixer"
	"github.com/elxarus/valib/speaker"
)

// State names the DVD graph's position in the demux/detect/decode/
// process/encode pipeline. This is the "longer", more descriptive state
// enum (as opposed to a collapsed two-state input/output view): every
// pipeline stage gets its own named state, including the detector and
// encoder stages, since callers inspecting State need to tell "still
// sniffing the format" apart from "re-encoding for S/PDIF output".
type State int

const (
	StateDemux State = iota
	StateDetector
	StateDecode
	StateProcess
	StateDejitter
	StateEncode
)

func (s State) String() string {
	switch s {
	case StateDemux:
		return "demux"
	case StateDetector:
		return "detector"
	case StateDecode:
		return "decode"
	case StateProcess:
		return "process"
	case StateDejitter:
		return "dejitter"
	case StateEncode:
		return "encode"
	default:
		return "invalid"
	}
}

// Options configures a DVDGraph.
type Options struct {
	// StreamID is the PES stream_id carrying the audio elementary stream.
	StreamID byte
	// OutputRate is the sample rate of S/PDIF passthrough: a stream is
	// eligible only at this rate, and bursts are labelled with it.
	// Decoded PCM is not resampled to it.
	OutputRate int
	// OutputLayout is the channel layout the mixer produces for decoded
	// PCM. It is used only when SPDIF is false: with SPDIF enabled the
	// graph has no mixer, and a stream that is not eligible for
	// passthrough is decoded and passed on in its own layout.
	OutputLayout speaker.Layout
	// SPDIF enables S/PDIF passthrough when the current stream is
	// eligible; when false, every stream is decoded and mixed to
	// OutputLayout.
	SPDIF bool
	// BassRedirect enables the bass redirector stage on decoded PCM.
	BassRedirect bool
	// BassFreq is the bass redirector's crossover frequency, Hz.
	BassFreq float64
}

// Validate reports whether o is a usable configuration.
func (o Options) Validate() error {
	if o.OutputRate <= 0 {
		return errors.New("dvdgraph: OutputRate must be positive")
	}
	if !o.SPDIF && o.OutputLayout.NCh() == 0 {
		return errors.New("dvdgraph: OutputLayout must have at least one channel when SPDIF is disabled")
	}
	return nil
}

// DVDGraph is the top-level pipeline: PES demux, format detection,
// decode, processing (mixer/bass redirection), and either S/PDIF
// passthrough or PCM re-encoding.
type DVDGraph struct {
	opts     Options
	demuxer  *ps.Demuxer
	registry *header.Registry
	graph      *filter.Graph
	parser     *filter.ParserFilter
	state      State
	current    speaker.Format
	graphInput speaker.Layout // format the processing chain was last opened against.
}

// New returns a DVDGraph configured by opts. It does not validate opts;
// call opts.Validate() first.
func New(opts Options) *DVDGraph {
	g := &DVDGraph{
		opts:     opts,
		demuxer:  ps.NewDemuxer(opts.StreamID),
		registry: header.NewRegistry(),
		graph:    filter.NewGraph(),
		state:    StateDemux,
	}
	if !opts.SPDIF {
		g.graph.AddBack(mixer.NewMixer(opts.OutputLayout, nil))
		if opts.BassRedirect {
			br := bassredir.New()
			br.Enabled = true
			if opts.BassFreq > 0 {
				br.Freq = opts.BassFreq
			}
			g.graph.AddBack(br)
		}
	}
	return g
}

// decoderFor returns the codec.Decoder appropriate for a detected format.
func decoderFor(format speaker.Format) filterDecoder {
	switch format {
	case speaker.MPA:
		return mpa.NewDecoder()
	case speaker.AC3:
		return ac3.NewDecoder()
	case speaker.DTS:
		return dts.NewDecoder()
	case speaker.MLP, speaker.TrueHD:
		return mlp.NewDecoder()
	case speaker.FLAC:
		return flac.NewDecoder()
	}
	return nil
}

// filterDecoder is the minimal subset of codec.Decoder dvdgraph needs to
// select a decoder without importing every codec subpackage's concrete
// type into the graph-construction switch above.
type filterDecoder interface {
	CanDecode(speaker.Format) bool
	Decode(frame.FrameInfo, []byte) (frame.Chunk, error)
	NewStream()
}

// ProcessPES feeds one buffer of raw Program Stream bytes through the
// entire pipeline, returning every chunk the pipeline produced (either
// decoded/processed PCM or, when S/PDIF passthrough is in effect for an
// eligible stream, the original compressed payload re-wrapped in an IEC
// 61937 burst).
func (g *DVDGraph) ProcessPES(buf []byte) (out []frame.Chunk, consumed int, err error) {
	g.state = StateDemux
	chunks, n, err := g.demuxer.Demux(buf)
	if err != nil {
		return nil, n, errors.Wrap(err, "dvdgraph: demux")
	}

	for _, c := range chunks {
		g.state = StateDetector
		p, fi, ok := g.registry.Detect(c.RawData)
		if !ok {
			continue // not enough data yet to recognise a header; drop this chunk.
		}

		if g.current != fi.Spk.Format {
			g.current = fi.Spk.Format
			dec := decoderFor(fi.Spk.Format)
			if dec == nil {
				continue // no decoder for this format; nothing further to do with it.
			}
			g.parser = filter.NewParserFilter(p, codecAdapter{dec})
			if err := g.parser.Open(speaker.New(fi.Spk.Format, fi.Spk.Mask, fi.Spk.SampleRate)); err != nil {
				return out, n, errors.Wrap(err, "dvdgraph: open parser")
			}
		}

		if g.opts.SPDIF {
			if eligible, _ := spdif.Eligible(fi.Spk, g.opts.OutputRate); eligible {
				g.state = StateEncode
				burst := spdif.Wrap(uint16(fi.SpdifType), c.RawData[:min(len(c.RawData), fi.FrameSize)], fi.FrameSize*2)
				out = append(out, frame.Chunk{
					Spk:     speaker.New(speaker.SPDIF, fi.Spk.Mask, g.opts.OutputRate),
					RawData: burst,
					Size:    len(burst),
					Sync:    c.Sync,
					Time:    c.Time,
				})
				continue
			}
		}

		g.state = StateDecode
		decoded, ok, derr := g.parser.Process(c)
		if derr != nil {
			return out, n, errors.Wrap(derr, "dvdgraph: decode")
		}
		if !ok {
			continue
		}

		g.state = StateProcess
		if !decoded.Spk.Equal(g.graphInput) {
			g.graphInput = decoded.Spk
			if err := g.graph.Open(decoded.Spk); err != nil {
				return out, n, errors.Wrap(err, "dvdgraph: open processing chain")
			}
		}
		processed, ok, perr := g.graph.ProcessChain(decoded)
		if perr != nil {
			return out, n, errors.Wrap(perr, "dvdgraph: process")
		}
		if !ok {
			continue
		}

		g.state = StateDejitter
		out = append(out, processed)
	}
	return out, n, nil
}

// codecAdapter adapts filterDecoder to the codec.Decoder interface the
// filter package's ParserFilter expects, avoiding a direct import of the
// codec package's concrete Decoder type here.
type codecAdapter struct{ d filterDecoder }

func (c codecAdapter) CanDecode(f speaker.Format) bool                      { return c.d.CanDecode(f) }
func (c codecAdapter) Decode(fi frame.FrameInfo, raw []byte) (frame.Chunk, error) { return c.d.Decode(fi, raw) }
func (c codecAdapter) NewStream()                                            { c.d.NewStream() }
