package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/allan-kirui57/pynade-hub/internal/cache"
	"github.com/allan-kirui57/pynade-hub/internal/config"
	"github.com/allan-kirui57/pynade-hub/internal/logger"
	"github.com/allan-kirui57/pynade-hub/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store. Migrations run on open.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Database.Path)

	return &StoreHandle{Store: db}, nil
}

// CacheHandle wraps the taxonomy cache with shutdown capability.
type CacheHandle struct {
	*cache.Badger
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the badger-backed taxonomy cache.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c, err := cache.OpenBadger(cfg.Cache.Dir, log.Logger)
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Dir == "" {
		log.Info("Taxonomy cache initialized in memory")
	} else {
		log.Info("Taxonomy cache initialized", "dir", cfg.Cache.Dir)
	}

	return &CacheHandle{Badger: c}, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
