// Package builtin hosts domain scripts: it registers the native modules with
// a goja require registry and runs scripts against them.
package builtin

import (
	"log/slog"

	"github.com/dop251/goja_nodejs/require"

	htnmod "github.com/joeycumines/go-htn/internal/builtin/htn"
)

// Register registers every native module with registry and returns the htn
// module, which records the definitions scripts declare.
func Register(registry *require.Registry, logger *slog.Logger) *htnmod.Module {
	mod := htnmod.NewModule(logger)
	registry.RegisterNativeModule(htnmod.ModuleName, mod.Require)
	return mod
}
