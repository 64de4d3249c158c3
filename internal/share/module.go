package share

import (
	"go.uber.org/fx"
)

var (
	Module = fx.Provide(
		NewNotifier,
	)
)
