package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joeycumines/go-htn/internal/command"
	"github.com/joeycumines/go-htn/internal/config"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		// usage problems have already been reported by the command
		if !errors.Is(err, command.ErrUsage) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("ignoring unreadable configuration", "path", configPath, "error", err)
		cfg = config.NewConfig()
	}

	registry := command.NewRegistry()
	registry.Register(command.NewHelpCommand(registry))
	registry.Register(command.NewVersionCommand(version))
	registry.Register(command.NewConfigCommand(cfg, configPath))
	registry.Register(command.NewInitCommand(""))
	registry.Register(command.NewPlanCommand(cfg))
	registry.Register(command.NewValidateCommand())

	return registry.Run(args, stdout, stderr)
}
