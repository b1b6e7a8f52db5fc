// internal/logger/logger.go
//
// JSON logging to `<root>/<dir>/YYYY-MM-DD.log` through zap, rotated and
// pruned by lumberjack.  When stdout is a terminal the same entries are
// teed through the console encoder.
//
// New installs the result with zap.ReplaceGlobals, so packages that log
// through zap.L() before a request logger exists still land in the file.
// Request-scoped loggers ride on the context (WithContext, FromContext).
package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	Root  string // base directory for a relative Dir
	Dir   string // defaults to "logs"
	Level string // debug, info, warn, error; defaults to info
	Tee   bool   // also write to stdout
}

var encoding = zapcore.EncoderConfig{
	TimeKey:      "ts",
	LevelKey:     "level",
	MessageKey:   "msg",
	CallerKey:    "caller",
	EncodeTime:   zapcore.ISO8601TimeEncoder,
	EncodeLevel:  zapcore.LowercaseLevelEncoder,
	EncodeCaller: zapcore.ShortCallerEncoder,
}

func New(opts Options) (*zap.SugaredLogger, error) {
	level := zap.NewAtomicLevel()
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("logger: level %q: %w", opts.Level, err)
		}
	}

	sink, err := dailyFile(opts.Root, opts.Dir)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoding), sink, level)
	if opts.Tee {
		core = zapcore.NewTee(core,
			zapcore.NewCore(zapcore.NewConsoleEncoder(encoding), zapcore.Lock(os.Stdout), level))
	}

	l := zap.New(core, zap.AddCaller(), zap.ErrorOutput(sink))
	zap.ReplaceGlobals(l)
	l.Info("logger online", zap.Bool("tee", opts.Tee), zap.Stringer("level", level.Level()))
	return l.Sugar(), nil
}

func dailyFile(root, dir string) (zapcore.WriteSyncer, error) {
	if dir == "" {
		dir = "logs"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, time.Now().Format("2006-01-02")+".log"),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	}), nil
}

type ctxKey struct{}

// WithContext returns a child context carrying l.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request logger or the global one.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.L()
}
