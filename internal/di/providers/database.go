package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the release database.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return nil, err
	}

	dbPath := cfg.Data.DatabasePath()
	db, err := sqlite.Open(dbPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}
