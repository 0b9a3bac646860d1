package memcache_fx

import (
	"time"

	"go.uber.org/fx"
	mem "travelmind/pkg/memcache"
)

var Module = fx.Provide(provideMemoStore)

func provideMemoStore() mem.Store {
	return mem.NewMemoStore(30*time.Minute, 10*time.Minute)
}
