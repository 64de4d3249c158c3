package ollama

import (
	"go.uber.org/fx"
)

var (
	Module = fx.Provide(
		NewClient,
	)
)
