package providers

import (
	"github.com/samber/do/v2"

	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/scanner"
	"github.com/relprep/relprep/internal/service"
)

// ProvideReleaseService provides the release service. Optional collaborators
// are only set when present so the service sees a nil interface.
func ProvideReleaseService(i do.Injector) (*service.ReleaseService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	fileScanner := do.MustInvoke[*scanner.Scanner](i)
	mediaInfo := do.MustInvoke[*MediaInfoHandle](i)
	tmdbHandle := do.MustInvoke[*TMDBClientHandle](i)
	capturer := do.MustInvoke[*CapturerHandle](i)
	imageHost := do.MustInvoke[*ImageHostHandle](i)

	deps := service.Dependencies{
		Store:           storeHandle.Store,
		Index:           indexHandle.Index,
		Scanner:         fileScanner,
		ScreenshotCount: cfg.Screenshots.Count,
	}
	if mediaInfo.Runner != nil {
		deps.MediaInfo = mediaInfo.Runner
	}
	if tmdbHandle.Client != nil {
		deps.TMDB = tmdbHandle.Client
	}
	if capturer.Capturer != nil {
		deps.Screenshots = capturer.Capturer
	}
	if imageHost.Client != nil {
		deps.Uploader = imageHost.Client
	}

	return service.NewReleaseService(deps, log)
}
