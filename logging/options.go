// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	StdoutFile = "stdout"
	StderrFile = "stderr"

	// DefaultLevel is used when no level is configured
	DefaultLevel = "info"
)

// Options stores the configuration of a Logger.  Lumberjack is used for rolling files.
type Options struct {
	// File is the system file path for the log file.  If unset or set to "stdout", this will log to os.Stdout.
	// "stderr" logs to os.Stderr.  Otherwise, a lumberjack.Logger is created.
	File string `json:"file"`

	// MaxSize is the lumberjack MaxSize
	MaxSize int `json:"maxsize"`

	// MaxAge is the lumberjack MaxAge
	MaxAge int `json:"maxage"`

	// MaxBackups is the lumberjack MaxBackups
	MaxBackups int `json:"maxbackups"`

	// JSON is a flag indicating whether JSON logging output is used.  The default is false,
	// meaning that console output is used.
	JSON bool `json:"json"`

	// Level is the minimum level to output, e.g. "debug", "info", "warn", "error".  An empty
	// value means DefaultLevel.  Any unrecognized value is an error.
	Level string `json:"level"`

	// Development enables zap's development mode, which adds caller information and stacktraces on warnings
	Development bool `json:"development"`
}

func (o *Options) output() zapcore.WriteSyncer {
	var file string
	if o != nil {
		file = o.File
	}

	switch file {
	case "", StdoutFile:
		return zapcore.Lock(os.Stdout)

	case StderrFile:
		return zapcore.Lock(os.Stderr)

	default:
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    o.MaxSize,
			MaxAge:     o.MaxAge,
			MaxBackups: o.MaxBackups,
		})
	}
}

func (o *Options) encoder() zapcore.Encoder {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	if o != nil && o.JSON {
		return zapcore.NewJSONEncoder(config)
	}

	config.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(config)
}

func (o *Options) level() (zapcore.Level, error) {
	if o == nil || len(o.Level) == 0 {
		return zapcore.ParseLevel(DefaultLevel)
	}

	return zapcore.ParseLevel(o.Level)
}

func (o *Options) development() bool {
	return o != nil && o.Development
}
