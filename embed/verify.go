package embed

import (
	"context"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-descriptor/errors"
)

// Verify compiles module with wazero and returns the payload of the custom
// section called name as the engine sees it. The module is compiled but
// never instantiated.
func Verify(ctx context.Context, module []byte, name string) ([]byte, error) {
	cfg := wazero.NewRuntimeConfig().WithCustomSections(true)
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, module)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEmbed, errors.KindInvalidData, err, "compile failed")
	}
	defer compiled.Close(ctx)

	for _, cs := range compiled.CustomSections() {
		if cs.Name() == name {
			Logger().Debug("verified custom section",
				zap.String("section", name),
				zap.Int("payload_bytes", len(cs.Data())),
			)
			return cs.Data(), nil
		}
	}
	return nil, errors.NotFound(errors.PhaseEmbed, "custom section", name)
}
