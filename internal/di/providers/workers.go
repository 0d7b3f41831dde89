package providers

import (
	"context"
	"sync"

	"github.com/samber/do/v2"

	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/processor"
	"github.com/relprep/relprep/internal/service"
	"github.com/relprep/relprep/internal/watcher"
)

// ProvideEventProcessor provides the processor that turns library events
// into release preparations.
func ProvideEventProcessor(i do.Injector) (*processor.EventProcessor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	releases := do.MustInvoke[*service.ReleaseService](i)

	return processor.NewEventProcessor(releases, cfg.Library.Root, log), nil
}

// FileWatcherHandle wraps the file watcher with shutdown capability.
// Watcher is nil when watching is disabled.
type FileWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Shutdown implements do.Shutdownable.
func (h *FileWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	err := h.Stop()
	h.wg.Wait()
	return err
}

// ProvideFileWatcher provides the library watcher.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Library.Watch || cfg.Library.Root == "" {
		log.Info("Library watcher disabled")
		return &FileWatcherHandle{}, nil
	}

	eventProcessor := do.MustInvoke[*processor.EventProcessor](i)

	w, err := watcher.New(log, watcher.Options{
		SettleDelay:  cfg.Library.SettleDelay,
		IgnoreHidden: true,
	})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(cfg.Library.Root); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &FileWatcherHandle{Watcher: w, cancel: cancel}

	h.wg.Add(3)
	go func() {
		defer h.wg.Done()
		if err := w.Start(ctx); err != nil {
			log.Error("File watcher error", "error", err)
		}
	}()
	go func() {
		defer h.wg.Done()
		eventProcessor.Run(ctx, w.Events())
	}()
	go func() {
		defer h.wg.Done()
		for {
			select {
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				log.Warn("file watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("File watcher started", "root", cfg.Library.Root, "settle_delay", cfg.Library.SettleDelay)

	return h, nil
}
