package providers

import (
	"github.com/samber/do/v2"

	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/mediainfo"
	"github.com/relprep/relprep/internal/scanner"
	"github.com/relprep/relprep/internal/scanner/audio"
	"github.com/relprep/relprep/internal/screenshot"
)

// ProvideScanner provides the album scanner backed by the native tag decoder.
func ProvideScanner(i do.Injector) (*scanner.Scanner, error) {
	log := do.MustInvoke[*logger.Logger](i)

	extractor, err := audio.NewExtractor(audio.NewNativeDecoder(), log)
	if err != nil {
		return nil, err
	}

	return scanner.NewScanner(extractor, log), nil
}

// MediaInfoHandle wraps the mediainfo runner. Runner is nil when the binary
// cannot be found; video preparation then reports UNAVAILABLE.
type MediaInfoHandle struct {
	Runner *mediainfo.Runner
	Err    error
}

// ProvideMediaInfo provides the mediainfo runner.
func ProvideMediaInfo(i do.Injector) (*MediaInfoHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	runner, err := mediainfo.NewRunner(cfg.Tools.MediaInfoPath)
	if err != nil {
		log.Warn("mediainfo unavailable, video releases are disabled", "path", cfg.Tools.MediaInfoPath, "error", err)
		return &MediaInfoHandle{Err: err}, nil
	}

	return &MediaInfoHandle{Runner: runner}, nil
}

// CapturerHandle wraps the screenshot capturer. Capturer is nil when ffmpeg
// or ffprobe is missing or screenshots are disabled.
type CapturerHandle struct {
	Capturer *screenshot.Capturer
}

// ProvideCapturer provides the screenshot capturer.
func ProvideCapturer(i do.Injector) (*CapturerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Screenshots.Count == 0 {
		log.Info("Screenshots disabled by configuration")
		return &CapturerHandle{}, nil
	}

	capturer, err := screenshot.NewCapturer(screenshot.Options{
		FFmpegPath:  cfg.Tools.FFmpegPath,
		FFprobePath: cfg.Tools.FFprobePath,
		OutDir:      cfg.Data.ScreenshotPath(),
		ThumbWidth:  cfg.Screenshots.Width,
	}, log)
	if err != nil {
		log.Warn("Screenshots unavailable", "error", err)
		return &CapturerHandle{}, nil
	}

	return &CapturerHandle{Capturer: capturer}, nil
}
