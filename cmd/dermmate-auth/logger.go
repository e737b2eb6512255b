package main

import (
	"go.uber.org/zap"
)

// zapLogger adapts a zap SugaredLogger to the auth.Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

func newZapLogger(debug bool) (*zapLogger, func(), error) {
	var base *zap.Logger
	var err error
	if debug {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}

	flush := func() {
		_ = base.Sync()
	}
	return &zapLogger{s: base.Sugar()}, flush, nil
}

func (l *zapLogger) Debug(format string, args ...any) { l.s.Debugf(format, args...) }
func (l *zapLogger) Info(format string, args ...any)  { l.s.Infof(format, args...) }
func (l *zapLogger) Warn(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l *zapLogger) Error(format string, args ...any) { l.s.Errorf(format, args...) }
