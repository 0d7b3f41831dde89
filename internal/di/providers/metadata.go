package providers

import (
	"github.com/samber/do/v2"

	"github.com/relprep/relprep/internal/cache"
	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/imagehost"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/metadata/tmdb"
	"github.com/relprep/relprep/internal/ratelimit"
)

// CacheHandle wraps the response cache with shutdown capability.
type CacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the badger cache for upstream responses.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c, err := cache.Open(cfg.Data.CachePath(), cfg.TMDB.CacheTTL, log)
	if err != nil {
		return nil, err
	}

	log.Info("Cache initialized", "path", cfg.Data.CachePath(), "ttl", cfg.TMDB.CacheTTL)

	return &CacheHandle{Cache: c}, nil
}

// TMDBClientHandle wraps the TMDB client. Client is nil when no API key is set.
type TMDBClientHandle struct {
	Client *tmdb.Client
}

// ProvideTMDBClient provides the TMDB client.
func ProvideTMDBClient(i do.Injector) (*TMDBClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.TMDB.Enabled() {
		log.Info("TMDB lookups disabled: no API key configured")
		return &TMDBClientHandle{}, nil
	}

	cacheHandle := do.MustInvoke[*CacheHandle](i)

	client, err := tmdb.NewClient(tmdb.Config{
		APIKey:    cfg.TMDB.APIKey,
		Language:  cfg.TMDB.Language,
		BaseURL:   cfg.TMDB.BaseURL,
		RateLimit: cfg.TMDB.RateLimit,
	}, cacheHandle.Cache, log)
	if err != nil {
		return nil, err
	}

	log.Info("TMDB client initialized", "language", cfg.TMDB.Language)

	return &TMDBClientHandle{Client: client}, nil
}

// ImageHostHandle wraps the upload client. Client is nil when no endpoint is set.
type ImageHostHandle struct {
	Client *imagehost.Client
}

// ProvideImageHost provides the screenshot upload client.
func ProvideImageHost(i do.Injector) (*ImageHostHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.ImageHost.Enabled() {
		log.Info("Screenshot uploads disabled: no image host configured")
		return &ImageHostHandle{}, nil
	}

	client, err := imagehost.NewClient(cfg.ImageHost.URL, cfg.ImageHost.APIKey, ratelimit.New(uploadRate, uploadBurst), log)
	if err != nil {
		return nil, err
	}

	log.Info("Image host client initialized", "url", cfg.ImageHost.URL)

	return &ImageHostHandle{Client: client}, nil
}
