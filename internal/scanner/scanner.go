// Package scanner discovers the audio files of a release folder, extracts
// their tags and aggregates them into album metadata.
package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/scanner/audio"
)

// Scanner scans release folders.
type Scanner struct {
	extractor *audio.Extractor
	logger    *logger.Logger
}

// NewScanner creates a scanner backed by extractor.
func NewScanner(extractor *audio.Extractor, log *logger.Logger) *Scanner {
	if log == nil {
		log = logger.Discard()
	}
	return &Scanner{extractor: extractor, logger: log.Component("scanner")}
}

// ScanOptions configures a scan.
type ScanOptions struct {
	// OnProgress, if set, is called synchronously on every progress change.
	OnProgress func(Progress)
}

// Scan discovers, extracts and aggregates the audio files under dir.
func (s *Scanner) Scan(ctx context.Context, dir string, opts ScanOptions) (*Album, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, domainerrors.NotFoundf("release folder %s does not exist", dir)
	case err != nil:
		return nil, err
	case !info.IsDir():
		return nil, domainerrors.Validationf("%s is not a directory", dir)
	}

	tracker := newProgressTracker(opts.OnProgress)
	started := time.Now()

	tracker.SetPhase(PhaseDiscovering)
	paths, err := Discover(dir, s.logger)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "discover audio in %s", dir)
	}
	if len(paths) == 0 {
		return nil, domainerrors.NotFoundf("no audio files in %s", dir)
	}

	tracker.SetPhase(PhaseExtracting)
	tracker.SetTotal(len(paths))
	results := make([]audio.Result, 0, len(paths))
	for _, p := range paths {
		r := s.extractor.ExtractAll(ctx, []string{p})[0]
		if r.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			tracker.AddError(ScanError{Time: time.Now(), Error: r.Err, Path: p, Phase: PhaseExtracting})
		}
		results = append(results, r)
		tracker.Increment(p)
	}

	tracker.SetPhase(PhaseAggregating)
	album := &Album{Dir: dir, Metadata: Aggregate(results), Results: results}
	tracker.SetPhase(PhaseComplete)

	s.logger.Info("album scanned",
		"dir", dir,
		"tracks", album.Metadata.TrackCount,
		"extracted", album.Metadata.ExtractedCount,
		"duration", time.Since(started),
	)
	return album, nil
}

// progressTracker reports progress through a synchronous callback.
type progressTracker struct {
	callback func(Progress)
	progress Progress
}

func newProgressTracker(callback func(Progress)) *progressTracker {
	return &progressTracker{callback: callback}
}

func (p *progressTracker) SetPhase(phase ScanPhase) {
	p.progress.Phase = phase
	p.progress.Current = 0
	p.progress.Total = 0
	p.notify()
}

func (p *progressTracker) SetTotal(total int) {
	p.progress.Total = total
	p.notify()
}

func (p *progressTracker) Increment(item string) {
	p.progress.Current++
	p.progress.CurrentItem = item
	p.notify()
}

func (p *progressTracker) AddError(err ScanError) {
	p.progress.Errors = append(p.progress.Errors, err)
	p.notify()
}

func (p *progressTracker) notify() {
	if p.callback != nil {
		snapshot := p.progress
		snapshot.Errors = append([]ScanError(nil), p.progress.Errors...)
		p.callback(snapshot)
	}
}
