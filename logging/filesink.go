/*
NAME
  filesink.go

DESCRIPTION
  filesink.go implements FileSink, a Sink writing formatted log lines to a
  rotated file via gopkg.in/natefinch/lumberjack.v2, the rotation library
  the teacher's logging configuration already depends on.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package logging

import (
	"fmt"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileSink writes log lines to a size/age-rotated file.
type FileSink struct {
	logger *lumberjack.Logger
}

// NewFileSink returns a FileSink rotating path at maxSizeMB, keeping up to
// maxBackups old files for maxAgeDays.
func NewFileSink(path string, maxSizeMB, maxBackups, maxAgeDays int) *FileSink {
	return &FileSink{logger: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}}
}

var levelName = map[Level]string{
	Debug:   "DEBUG",
	Info:    "INFO",
	Warning: "WARN",
	Error:   "ERROR",
	Fatal:   "FATAL",
}

func (f *FileSink) Write(level Level, message string, params []interface{}) {
	line := fmt.Sprintf("%s [%s] %s", time.Now().Format(time.RFC3339), levelName[level], message)
	for i := 0; i+1 < len(params); i += 2 {
		line += fmt.Sprintf(" %v=%v", params[i], params[i+1])
	}
	line += "\n"
	f.logger.Write([]byte(line))
}

// Close flushes and closes the underlying rotated file.
func (f *FileSink) Close() error { return f.logger.Close() }
