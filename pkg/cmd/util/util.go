// Package util holds helpers shared by the CLI commands.
package util

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/config"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/db/postgres"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/export"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/parser"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/utils"
)

const OutputText = "text"

// NewParser creates a parser configured by the CLI settings
func NewParser() *parser.Parser {
	opts := []parser.Option{
		parser.WithSectorCount(config.SectorCount),
	}
	if d := ParseDuration(config.CacheDuration, 0); d > 0 {
		opts = append(opts, parser.WithCache(d, 16))
	}
	return parser.New(opts...)
}

// ParseDuration returns defaultVal if s is not a valid duration
func ParseDuration(s string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		if s != "" {
			log.Warn("Invalid duration value, using default",
				log.String("value", s),
				log.Duration("default", defaultVal))
		}
		return defaultVal
	}
	return d
}

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// NewLogger creates a logger using the configured format and filter
func NewLogger(level string) (*log.Logger, error) {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr, ParseLogLevel(level, log.InfoLevel),
			log.WithCaller(true), log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(os.Stderr, ParseLogLevel(level, log.InfoLevel))
	}
	if config.LogFilter == "" {
		return logger, nil
	}
	return logger.WithFilter(config.LogFilter)
}

// WriteResult writes data with the configured output format.
// text uses the given renderer.
func WriteResult(w io.Writer, data any, text func(io.Writer) error) error {
	if config.Output == "" || config.Output == OutputText {
		return text(w)
	}
	format, err := export.ParseFormat(config.Output)
	if err != nil {
		return err
	}
	return export.Write(w, data, format)
}

// OpenDB waits for the database and returns a connection pool
func OpenDB(ctx context.Context) (*pgxpool.Pool, error) {
	timeout := ParseDuration(config.WaitForServices, 60*time.Second)
	addr := utils.ExtractFromDBURL(config.DB)
	if addr == "" {
		return nil, fmt.Errorf("invalid database url")
	}
	if err := utils.WaitForTCP(ctx, addr, timeout); err != nil {
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	sqlLogger, err := NewLogger(config.SQLLogLevel)
	if err != nil {
		return nil, err
	}
	return postgres.InitWithURL(ctx, config.DB, postgres.WithTracer(sqlLogger))
}
