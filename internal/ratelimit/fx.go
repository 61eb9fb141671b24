package ratelimit

import (
	"time"

	"go.uber.org/fx"
)

const seedLockTTL = 30 * time.Second

var Module = fx.Module("rate.limit",
	fx.Provide(NewCalcLimiter),
)
