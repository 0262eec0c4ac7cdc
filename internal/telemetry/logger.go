package telemetry

import "go.uber.org/zap"

// Logger is the leveled, keyed-field sink every component logs through.
// The keyed-pair call convention (msg, then alternating key/value pairs)
// keeps call sites reading the same way whether they sit in adapter code
// or coordinator code.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
	// New returns a child logger with additional fixed fields, e.g.
	// log.New("component", "pricing").
	New(kv ...any) Logger
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps a *zap.Logger as a Logger.
func NewZapLogger(z *zap.Logger) Logger {
	return &zapLogger{s: z.Sugar()}
}

// NewNopLogger returns a Logger that discards everything; useful for tests
// and for samples that don't want to wire a real sink.
func NewNopLogger() Logger {
	return NewZapLogger(zap.NewNop())
}

func (l *zapLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l *zapLogger) Info(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l *zapLogger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }

func (l *zapLogger) New(kv ...any) Logger {
	return &zapLogger{s: l.s.With(kv...)}
}
