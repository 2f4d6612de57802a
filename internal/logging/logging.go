package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileSink is the optional JSON log file every register session appends to.
// A nil *FileSink means file logging is off.
type FileSink struct {
	file  *os.File
	level zapcore.Level
}

func OpenFileSink(path string, debug bool) (*FileSink, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	return &FileSink{file: file, level: level}, nil
}

func (s *FileSink) Core() zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(s.file), s.level)
}

// Tee returns base with every entry also written to the sink.
func (s *FileSink) Tee(base *zap.Logger) *zap.Logger {
	if s == nil {
		return base
	}
	fileCore := s.Core()
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))
}

func (s *FileSink) Close() error {
	if s == nil {
		return nil
	}
	_ = s.file.Sync()
	return s.file.Close()
}
