/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CCGTSIM project.
 *
 * CCGTSIM is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultEncoding = "console"

var (
	logger *zap.SugaredLogger
	dlevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	if err := Configure(defaultEncoding, []string{"stderr"}); err != nil {
		panic(err)
	}
	L().Debugf("Logger initialized")
}

func newConfig(encoding string, outputs []string) zap.Config {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	if encoding == "json" {
		encoderCfg = zap.NewProductionEncoderConfig()
	}
	return zap.Config{
		Level:            dlevel,
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      outputs,
		ErrorOutputPaths: outputs,
		// NOTE: set this false to enable stack trace
		DisableStacktrace: true,
	}
}

// Configure rebuilds the global logger. Log level is shared across rebuilds.
func Configure(encoding string, outputs []string) error {
	l, err := newConfig(encoding, outputs).Build()
	if err != nil {
		return errors.Wrapf(err, "failed to build %s logger", encoding)
	}
	logger = l.Sugar()
	return nil
}

func L() *zap.SugaredLogger {
	if logger == nil {
		panic("Logger is not initialized")
	}
	return logger
}

// ForCase tags every entry with the name of the cycle case being solved.
func ForCase(name string) *zap.SugaredLogger {
	return L().With("case", name)
}

func Close() {
	if err := L().Sync(); err != nil {
		L().Debug(errors.WithMessage(err, "failed to close logger"))
	}
}

func SetLogLevel(level zapcore.Level) {
	dlevel.SetLevel(level)
}
