package processor

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/relprep/relprep/internal/domain"
	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/mediainfo"
	"github.com/relprep/relprep/internal/watcher"
)

// Preparer is the part of the release service the processor drives.
type Preparer interface {
	PrepareAudio(ctx context.Context, dir string) (*domain.Release, error)
	PrepareVideo(ctx context.Context, path string) (*domain.Release, error)
	ForgetPath(ctx context.Context, path string) error
}

// EventProcessor maps file events to the release they belong to and
// prepares that release again.
//
//   - audio files prepare their top-level folder as an album
//   - video files prepare themselves
//   - a BDINFO.txt re-prepares the videos next to it
//   - removals forget releases whose source is gone
//
// Work for the same release never overlaps; events arriving mid-run are
// coalesced into one rerun.
type EventProcessor struct {
	prep   Preparer
	root   string
	logger *logger.Logger
	jobs   *coalescer
	wg     sync.WaitGroup
}

// NewEventProcessor creates a processor for releases under root.
func NewEventProcessor(prep Preparer, root string, log *logger.Logger) *EventProcessor {
	if log == nil {
		log = logger.Discard()
	}
	return &EventProcessor{
		prep:   prep,
		root:   filepath.Clean(root),
		logger: log.Component("processor"),
		jobs:   newCoalescer(),
	}
}

// Run consumes events until the channel closes or ctx is cancelled, then
// waits for in-flight preparations.
func (ep *EventProcessor) Run(ctx context.Context, events <-chan watcher.Event) {
	defer ep.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			ep.wg.Add(1)
			go func() {
				defer ep.wg.Done()
				if err := ep.ProcessEvent(ctx, ev); err != nil {
					ep.logger.Warn("failed to process event", "event", ev, "error", err)
				}
			}()
		}
	}
}

// ProcessEvent handles one event synchronously.
func (ep *EventProcessor) ProcessEvent(ctx context.Context, event watcher.Event) error {
	ep.logger.Debug("processing event", "event", event)

	switch ft := classifyFile(event.Path); ft {
	case FileTypeAudio:
		folder, ok := releaseFolder(ep.root, event.Path)
		if !ok {
			ep.logger.Debug("audio file outside a release folder", "path", event.Path)
			return nil
		}
		return ep.run(folder, func() error { return ep.syncAlbum(ctx, folder) })

	case FileTypeVideo:
		if event.Type == watcher.EventRemoved {
			return ep.run(event.Path, func() error { return ep.forget(ctx, event.Path) })
		}
		return ep.run(event.Path, func() error { return ep.prepareVideo(ctx, event.Path) })

	case FileTypeDiscReport:
		if event.Type == watcher.EventRemoved {
			return nil
		}
		return ep.rescanVideos(ctx, filepath.Dir(event.Path))

	default:
		return nil
	}
}

// run executes fn under the coalescer and returns the error of the last run.
func (ep *EventProcessor) run(key string, fn func() error) error {
	ran, err := ep.jobs.do(key, fn)
	if !ran {
		ep.logger.Debug("release already being prepared, queued rerun", "key", key)
	}
	return err
}

func (ep *EventProcessor) syncAlbum(ctx context.Context, folder string) error {
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		return ep.forget(ctx, folder)
	}

	release, err := ep.prep.PrepareAudio(ctx, folder)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		// Folder exists but no audio is left in it.
		return ep.forget(ctx, folder)
	}
	if err != nil {
		return err
	}
	ep.logger.Info("prepared album from watcher", "folder", folder, "id", release.ID, "title", release.Title)
	return nil
}

func (ep *EventProcessor) prepareVideo(ctx context.Context, path string) error {
	release, err := ep.prep.PrepareVideo(ctx, path)
	if err != nil {
		return err
	}
	ep.logger.Info("prepared video from watcher", "path", path, "id", release.ID, "title", release.Title)
	return nil
}

func (ep *EventProcessor) rescanVideos(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var firstErr error
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() || !mediainfo.IsVideoFile(path) {
			continue
		}
		if err := ep.run(path, func() error { return ep.prepareVideo(ctx, path) }); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (ep *EventProcessor) forget(ctx context.Context, path string) error {
	err := ep.prep.ForgetPath(ctx, path)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		return nil
	}
	if err == nil {
		ep.logger.Info("forgot release whose source is gone", "path", path)
	}
	return err
}
