// Package observability builds the process logger from config.LogConfig and
// adapts it to crypter.Logger.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-cz/devslog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/unkn0wn-root/crypter"
	"github.com/unkn0wn-root/crypter/config"
	logruslog "github.com/unkn0wn-root/crypter/log/logrus"
	sloglog "github.com/unkn0wn-root/crypter/log/slog"
	zaplog "github.com/unkn0wn-root/crypter/log/zap"
)

// Setup builds the logger selected by c.Backend. It also returns the
// *slog.Logger used by sloghooks, sharing the same outputs, and a flush func
// the caller should defer.
func Setup(c config.LogConfig) (crypter.Logger, *slog.Logger, func(), error) {
	switch c.Backend {
	case "", "zap", "slog", "logrus":
	default:
		return nil, nil, nil, fmt.Errorf("unknown log backend %q", c.Backend)
	}
	ws, err := writers(c)
	if err != nil {
		return nil, nil, nil, err
	}
	sl := newSlog(c, ws)

	switch c.Backend {
	case "slog":
		return sloglog.New(sl), sl, func() {}, nil
	case "logrus":
		return logruslog.New(newLogrus(c, ws)), sl, func() {}, nil
	}
	zl := newZap(c, ws)
	return zaplog.New(zl), sl, func() { _ = zl.Sync() }, nil
}

// SetupLogger builds a zap.Logger teeing to every configured output. The
// caller should defer logger.Sync().
func SetupLogger(c config.LogConfig) (*zap.Logger, error) {
	ws, err := writers(c)
	if err != nil {
		return nil, err
	}
	return newZap(c, ws), nil
}

// SetupSlog builds a slog.Logger. Development mode uses devslog on the first
// output; otherwise a text or JSON handler writes to all outputs.
func SetupSlog(c config.LogConfig) (*slog.Logger, error) {
	ws, err := writers(c)
	if err != nil {
		return nil, err
	}
	return newSlog(c, ws), nil
}

// SetupLogrus builds a logrus.Logger writing to all outputs.
func SetupLogrus(c config.LogConfig) (*logrus.Logger, error) {
	ws, err := writers(c)
	if err != nil {
		return nil, err
	}
	return newLogrus(c, ws), nil
}

func newZap(c config.LogConfig, ws []io.Writer) *zap.Logger {
	level := zap.NewAtomicLevelAt(zapLevel(c.Level))

	encCfg := encoderConfig(c.Development)
	var encoder zapcore.Encoder
	if strings.EqualFold(c.Format, "json") {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := make([]zapcore.Core, 0, len(ws))
	for _, w := range ws {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(w), level))
	}

	opts := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
	if c.Development {
		opts = append(opts, zap.Development(), zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(cores...), opts...)
}

func newSlog(c config.LogConfig, ws []io.Writer) *slog.Logger {
	ho := &slog.HandlerOptions{Level: slogLevel(c.Level)}
	if c.Development {
		return slog.New(devslog.NewHandler(ws[0], &devslog.Options{HandlerOptions: ho}))
	}
	w := io.MultiWriter(ws...)
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, ho))
	}
	return slog.New(slog.NewTextHandler(w, ho))
}

func newLogrus(c config.LogConfig, ws []io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.MultiWriter(ws...))
	lvl, err := logrus.ParseLevel(normLevel(c.Level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	if strings.EqualFold(c.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: c.Development})
	}
	return l
}

// writers opens every output. File outputs rotate through lumberjack when
// rotation is enabled.
func writers(c config.LogConfig) ([]io.Writer, error) {
	outs := c.Outputs
	if len(outs) == 0 {
		outs = []string{"stderr"}
	}
	ws := make([]io.Writer, 0, len(outs))
	for _, out := range outs {
		switch strings.ToLower(out) {
		case "stdout":
			ws = append(ws, os.Stdout)
		case "stderr":
			ws = append(ws, os.Stderr)
		default:
			if c.Rotation.Enable {
				ws = append(ws, &lumberjack.Logger{
					Filename:   chooseFilename(out, c),
					MaxSize:    max(c.Rotation.MaxSizeMB, 10),
					MaxBackups: max(c.Rotation.MaxBackups, 1),
					MaxAge:     max(c.Rotation.MaxAgeDays, 7),
					Compress:   c.Rotation.Compress,
				})
				continue
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("log output %s: %w", out, err)
				}
			}
			f, err := os.OpenFile(out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, fmt.Errorf("log output %s: %w", out, err)
			}
			ws = append(ws, f)
		}
	}
	return ws, nil
}

// chooseFilename prefers the rotation filename when one is configured.
func chooseFilename(out string, c config.LogConfig) string {
	if strings.TrimSpace(c.Rotation.Filename) != "" {
		return c.Rotation.Filename
	}
	return out
}

func encoderConfig(dev bool) zapcore.EncoderConfig {
	if dev {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg
	}
	return zap.NewProductionEncoderConfig()
}

func normLevel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return "warn"
	}
	return s
}

func zapLevel(s string) zapcore.Level {
	switch normLevel(s) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	}
	return zap.InfoLevel
}

func slogLevel(s string) slog.Level {
	switch normLevel(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
