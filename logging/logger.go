// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger from a (possibly nil) Options.  An unrecognized level is an error,
// which callers should treat as fatal.
func New(o *Options) (*zap.Logger, error) {
	l, err := o.level()
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var (
		core    = zapcore.NewCore(o.encoder(), o.output(), zap.NewAtomicLevelAt(l))
		options = []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	)

	if o.development() {
		options = append(options, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	return zap.New(core, options...), nil
}
