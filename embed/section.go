package embed

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-descriptor/ast"
	"github.com/wippyai/wasm-descriptor/errors"
	"github.com/wippyai/wasm-descriptor/literal"
	"github.com/wippyai/wasm-descriptor/wasm"
)

// DefaultSection is the custom section descriptors are stored under.
const DefaultSection = "__wasm_descriptor_unstable"

// CustomSection returns module with payload stored in the custom section
// called name. An existing section of that name is replaced.
func CustomSection(module []byte, name string, payload []byte) ([]byte, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseEmbed, "empty section name")
	}
	m, err := wasm.ParseModule(module)
	if err != nil {
		return nil, errors.ParseFailed("module", err)
	}
	m.SetCustomSection(name, payload)
	out := m.Encode()
	Logger().Debug("stored custom section",
		zap.String("section", name),
		zap.Int("payload_bytes", len(payload)),
		zap.Int("module_bytes", len(out)),
	)
	return out, nil
}

// Module encodes p and stores it in module under section, DefaultSection
// when empty.
func Module(module []byte, section string, p *ast.Program, opts literal.Options) (_ []byte, err error) {
	if section == "" {
		section = DefaultSection
	}
	defer errors.Recover(&err)
	return CustomSection(module, section, literal.Encode(p, opts))
}

// Extract returns the payload of the custom section called name.
func Extract(module []byte, name string) ([]byte, error) {
	m, err := wasm.ParseModule(module)
	if err != nil {
		return nil, errors.ParseFailed("module", err)
	}
	data, ok := m.CustomSection(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseEmbed, "custom section", name)
	}
	return data, nil
}
