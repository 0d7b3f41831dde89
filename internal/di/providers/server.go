package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/do/v2"

	"github.com/relprep/relprep/internal/api"
	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/service"
)

// HTTPServerHandle runs the API server until shutdown.
type HTTPServerHandle struct {
	*api.Server
	cancel context.CancelFunc
	done   chan error
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	h.cancel()
	select {
	case err := <-h.done:
		return err
	case <-time.After(shutdownTimeout):
		return fmt.Errorf("http server did not stop within %s", shutdownTimeout)
	}
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	mediaInfo := do.MustInvoke[*MediaInfoHandle](i)
	releases := do.MustInvoke[*service.ReleaseService](i)

	checks := map[string]api.HealthCheck{
		"database": storeHandle.Ping,
		"search": func(context.Context) error {
			_, err := indexHandle.DocumentCount()
			return err
		},
		"mediainfo": func(context.Context) error {
			return mediaInfo.Err
		},
	}

	server := api.NewServer(releases, api.Options{
		Addr:         cfg.Server.Addr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Checks:       checks,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		err := server.ListenAndServe(ctx)
		if err != nil {
			log.Error("HTTP server error", "error", err)
		}
		done <- err
	}()

	log.Info("Server running", "addr", cfg.Server.Addr())

	return &HTTPServerHandle{Server: server, cancel: cancel, done: done}, nil
}
