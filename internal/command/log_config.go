package command

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/joeycumines/go-htn/internal/config"
)

// logConfig holds resolved logging configuration for planning commands.
type logConfig struct {
	level   slog.Level
	logFile io.WriteCloser // nil if no file logging
}

// resolveLogConfig resolves log configuration from flags and config defaults.
// Flag values take precedence; config values (with their env overrides) are
// used when flags are empty. The caller must Close logConfig.logFile when it
// is non-nil.
func resolveLogConfig(flagPath, flagLevel string, cfg *config.Config) (logConfig, error) {
	schema := config.DefaultSchema()
	var lc logConfig

	resolveInt := func(key string, def int) int {
		n, err := schema.ResolveInt(cfg, "", key)
		if err != nil {
			return def
		}
		return n
	}

	levelStr := flagLevel
	if levelStr == "" {
		levelStr = schema.Resolve(cfg, config.KeyLogLevel)
	}
	level, err := parseLevel(levelStr)
	if err != nil {
		return lc, err
	}
	lc.level = level

	logPath := flagPath
	if logPath == "" {
		logPath = schema.Resolve(cfg, config.KeyLogFile)
	}

	if logPath != "" {
		maxSizeMB := resolveInt(config.KeyLogMaxSizeMB, 10)
		if maxSizeMB <= 0 {
			maxSizeMB = 10
		}
		// zero backups is valid, only negative falls back
		maxFiles := resolveInt(config.KeyLogMaxFiles, 5)
		if maxFiles < 0 {
			maxFiles = 5
		}
		lc.logFile = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    maxSizeMB,
			MaxBackups: maxFiles,
		}
	}

	return lc, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}

// logger returns a JSON logger writing to the log file when one is
// configured, otherwise a text logger on stderr.
func (lc logConfig) logger(stderr io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.level}
	if lc.logFile != nil {
		return slog.New(slog.NewJSONHandler(lc.logFile, opts))
	}
	return slog.New(slog.NewTextHandler(stderr, opts))
}

func (lc logConfig) Close() error {
	if lc.logFile == nil {
		return nil
	}
	return lc.logFile.Close()
}
