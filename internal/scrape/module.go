package scrape

import (
	"go.uber.org/fx"
)

var (
	Module = fx.Provide(
		NewExtractor,
	)
)
