package command

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joeycumines/go-htn/internal/builtin"
	"github.com/joeycumines/go-htn/internal/domainfile"
)

// loadDefinition reads a domain file, choosing the front end by extension:
// .js files are run as scripts, .yaml/.yml/.json files are decoded.
func loadDefinition(path string, logger *slog.Logger) (*domainfile.Definition, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js":
		return builtin.LoadScript(path, logger)
	case ".yaml", ".yml", ".json":
		return domainfile.LoadFile(path)
	default:
		return nil, fmt.Errorf("%s: unsupported domain file type (want .yaml, .yml, .json or .js)", path)
	}
}
