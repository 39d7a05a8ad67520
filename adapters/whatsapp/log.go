package whatsapp

import (
	waLog "go.mau.fi/whatsmeow/util/log"
	"go.uber.org/zap"
)

// zapLogger routes whatsmeow's printf-style logging into zap.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewLogger wraps logger for whatsmeow. module is attached as a field.
func NewLogger(logger *zap.Logger, module string) waLog.Logger {
	return &zapLogger{s: logger.Sugar().With("module", module)}
}

func (l *zapLogger) Errorf(msg string, args ...any) { l.s.Errorf(msg, args...) }
func (l *zapLogger) Warnf(msg string, args ...any)  { l.s.Warnf(msg, args...) }
func (l *zapLogger) Infof(msg string, args ...any)  { l.s.Infof(msg, args...) }
func (l *zapLogger) Debugf(msg string, args ...any) { l.s.Debugf(msg, args...) }

func (l *zapLogger) Sub(module string) waLog.Logger {
	return &zapLogger{s: l.s.Named(module)}
}

