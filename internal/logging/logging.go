package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Conf struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Setup configures the global zerolog logger. With a Path, JSON lines are
// appended to that file; otherwise output goes to stderr.
func Setup(conf Conf) error {
	lvl := zerolog.InfoLevel
	if conf.Level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(conf.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", conf.Level, err)
		}
	}
	zerolog.SetGlobalLevel(lvl)

	if conf.Path != "" {
		f, err := os.OpenFile(conf.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		return nil
	}
	if conf.JSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return nil
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}
