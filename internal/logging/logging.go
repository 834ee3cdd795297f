package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/grafana/loki-client-go/loki"
	"github.com/prometheus/common/model"
	"github.com/rs/zerolog"

	"github.com/userdeck/userdeck/internal/config/data"
)

// Setup creates a zerolog logger according to the provided configuration.
// Records go to cfg.File since the terminal belongs to the UI. The returned
// cleanup flushes and closes every sink.
func Setup(cfg data.Logger) (zerolog.Logger, func(), error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	var (
		out     io.Writer = io.Discard
		closers []func()
	)
	if cfg.File != "" {
		if err := data.EnsureFullPath(cfg.File, 0700); err != nil {
			return zerolog.Logger{}, nil, err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closers = append(closers, func() { _ = f.Close() })
	}
	return build(cfg, level, out, closers)
}

// New builds a logger writing to w. It is used by headless commands and
// tests.
func New(cfg data.Logger, w io.Writer) (zerolog.Logger, func(), error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	return build(cfg, level, w, nil)
}

func build(cfg data.Logger, level zerolog.Level, out io.Writer, closers []func()) (zerolog.Logger, func(), error) {
	if strings.EqualFold(cfg.Format, "text") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}
	writers := []io.Writer{out}

	if cfg.Loki.Enabled {
		lokiWriter, closer, err := newLokiWriter(cfg.Loki)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return zerolog.Logger{}, nil, err
		}
		writers = append(writers, lokiWriter)
		closers = append([]func(){closer}, closers...)
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	multi := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(multi).With().Timestamp().Logger().Level(level)

	return logger, cleanup, nil
}

func newLokiWriter(cfg data.Loki) (io.Writer, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("loki url is required")
	}
	lokiCfg, err := loki.NewDefaultConfig(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare loki config: %w", err)
	}
	client, err := loki.New(lokiCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create loki client: %w", err)
	}

	labels := model.LabelSet{}
	for k, v := range cfg.Labels {
		labels[model.LabelName(k)] = model.LabelValue(v)
	}
	if len(labels) == 0 {
		labels["app"] = "userdeck"
	}

	return &lokiWriter{client: client, labels: labels}, client.Stop, nil
}

type lokiWriter struct {
	client *loki.Client
	labels model.LabelSet
}

func (l *lokiWriter) Write(p []byte) (int, error) {
	entry := strings.TrimSpace(string(p))
	if entry == "" {
		return len(p), nil
	}
	err := l.client.Handle(l.labels, time.Now(), entry)
	return len(p), err
}
