package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger from cfg
func Setup(cfg types.LogConfig) error {
	return SetupWriter(cfg, os.Stderr)
}

// SetupWriter is Setup with an explicit destination
func SetupWriter(cfg types.LogConfig, out io.Writer) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	if cfg.Format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}
	log.Logger = log.Level(level)

	return nil
}

// BadgerLogger forwards badger's internal logging to zerolog
type BadgerLogger struct{}

func (b *BadgerLogger) Errorf(format string, i ...any) {
	log.Error().Str("component", "badger").Msg(strings.TrimSpace(fmt.Sprintf(format, i...)))
}

func (b *BadgerLogger) Warningf(format string, i ...any) {
	log.Warn().Str("component", "badger").Msg(strings.TrimSpace(fmt.Sprintf(format, i...)))
}

func (b *BadgerLogger) Infof(format string, i ...any) {
	log.Info().Str("component", "badger").Msg(strings.TrimSpace(fmt.Sprintf(format, i...)))
}

func (b *BadgerLogger) Debugf(format string, i ...any) {
	log.Debug().Str("component", "badger").Msg(strings.TrimSpace(fmt.Sprintf(format, i...)))
}
