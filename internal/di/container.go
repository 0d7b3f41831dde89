// Package di provides dependency injection configuration for relprep.
package di

import (
	"github.com/samber/do/v2"

	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/di/providers"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/scanner"
	"github.com/relprep/relprep/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideCache)

	// Extraction tools
	do.Provide(injector, providers.ProvideScanner)
	do.Provide(injector, providers.ProvideMediaInfo)
	do.Provide(injector, providers.ProvideCapturer)

	// Metadata layer
	do.Provide(injector, providers.ProvideTMDBClient)
	do.Provide(injector, providers.ProvideImageHost)

	// Business services
	do.Provide(injector, providers.ProvideReleaseService)

	// Workers
	do.Provide(injector, providers.ProvideEventProcessor)
	do.Provide(injector, providers.ProvideFileWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the server and watcher.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*scanner.Scanner](injector)
	_ = do.MustInvoke[*providers.MediaInfoHandle](injector)
	_ = do.MustInvoke[*providers.CapturerHandle](injector)
	_ = do.MustInvoke[*providers.TMDBClientHandle](injector)
	_ = do.MustInvoke[*providers.ImageHostHandle](injector)
	_ = do.MustInvoke[*service.ReleaseService](injector)

	// Workers
	_ = do.MustInvoke[*providers.FileWatcherHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
