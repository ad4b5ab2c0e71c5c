package builtin

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"

	"github.com/joeycumines/go-htn/internal/domainfile"
)

// ErrNoDefinition is returned by RunScript when the script never called
// define.
var ErrNoDefinition = errors.New("script defined no domain")

// RunScript runs src in a fresh runtime with the native modules available,
// and returns the last definition it declared. Standard node modules such as
// console are not provided.
func RunScript(name, src string, logger *slog.Logger) (*domainfile.Definition, error) {
	runtime := goja.New()
	registry := require.NewRegistry()
	mod := Register(registry, logger)
	registry.Enable(runtime)

	if _, err := runtime.RunScript(name, src); err != nil {
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	defs := mod.Definitions()
	if len(defs) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoDefinition)
	}
	return defs[len(defs)-1], nil
}

// LoadScript reads and runs the script at path, see RunScript.
func LoadScript(path string, logger *slog.Logger) (*domainfile.Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading domain script: %w", err)
	}
	return RunScript(path, string(src), logger)
}
