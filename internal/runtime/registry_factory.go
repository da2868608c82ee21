// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"chore-cli/internal/config"
)

// NewRegistryFromConfig builds a runtime registry wired according to the
// global configuration: the native runtime picks up a configured shell
// override, and the virtual runtime honors the builtins toggle.
func NewRegistryFromConfig(cfg *config.Config) *Registry {
	native := NewNativeRuntime()
	native.Shell = cfg.Shell

	registry := NewRegistry()
	registry.Register(RuntimeTypeNative, native)
	registry.Register(RuntimeTypeVirtual, NewVirtualRuntime(cfg.VirtualShell.EnableBuiltins))
	return registry
}
