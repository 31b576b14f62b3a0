package observability

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig selects level, encoding and destination of the process logger.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info", Format: "json", Output: "stdout"}
}

// Logger keeps the key/value call style used across the services while
// delegating encoding to zap. A nil *Logger discards everything.
type Logger struct {
	l *zap.SugaredLogger
}

func NewLogger() *Logger {
	lg, err := NewLoggerWithConfig(DefaultLogConfig())
	if err != nil {
		return NewNopLogger()
	}
	return lg
}

func NewLoggerWithConfig(cfg LogConfig) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var ws zapcore.WriteSyncer
	switch cfg.Output {
	case "", "stdout":
		ws = zapcore.AddSync(os.Stdout)
	case "stderr":
		ws = zapcore.AddSync(os.Stderr)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		ws = zapcore.AddSync(f)
	}

	core := zapcore.NewCore(encoder, ws, level)
	return &Logger{l: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()}, nil
}

func NewNopLogger() *Logger {
	return &Logger{l: zap.NewNop().Sugar()}
}

// NewLoggerFromZap is used by tests that observe log output.
func NewLoggerFromZap(z *zap.Logger) *Logger {
	return &Logger{l: z.Sugar()}
}

func (lg *Logger) Debug(msg string, kv ...any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Debugw(msg, kv...)
}

func (lg *Logger) Info(msg string, kv ...any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Infow(msg, kv...)
}

func (lg *Logger) Warn(msg string, kv ...any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Warnw(msg, kv...)
}

func (lg *Logger) Error(msg string, kv ...any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Errorw(msg, kv...)
}

// With returns a child logger carrying kv on every line.
func (lg *Logger) With(kv ...any) *Logger {
	if lg == nil || lg.l == nil {
		return lg
	}
	return &Logger{l: lg.l.With(kv...)}
}

func (lg *Logger) Sync() {
	if lg == nil || lg.l == nil {
		return
	}
	_ = lg.l.Sync()
}

// L returns the process-wide logger. It is a no-op until ReplaceGlobal runs.
func L() *Logger {
	return &Logger{l: zap.S()}
}

// ReplaceGlobal installs lg as the logger returned by L.
func ReplaceGlobal(lg *Logger) {
	if lg == nil || lg.l == nil {
		return
	}
	zap.ReplaceGlobals(lg.l.Desugar())
}
