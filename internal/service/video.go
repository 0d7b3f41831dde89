package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/relprep/relprep/internal/bdinfo"
	"github.com/relprep/relprep/internal/description"
	"github.com/relprep/relprep/internal/domain"
	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/id"
	"github.com/relprep/relprep/internal/mediainfo"
	"github.com/relprep/relprep/internal/metadata/tmdb"
)

// discReportName is the file a BDInfo scan is saved as.
const discReportName = "BDINFO.txt"

// PrepareVideo builds a release for a movie or episode. path is a video file,
// or a folder whose largest video file is used.
//
// mediainfo is required. The disc report, the TMDB lookup, screenshots and
// uploads are each optional: when one is unavailable or fails the release is
// still prepared and the reason is kept in Video.Warnings.
func (s *ReleaseService) PrepareVideo(ctx context.Context, path string) (*domain.Release, error) {
	if s.deps.MediaInfo == nil {
		return nil, domainerrors.Unavailablef("mediainfo is not configured")
	}

	file, err := resolveVideo(path)
	if err != nil {
		return nil, err
	}

	report, err := s.deps.MediaInfo.Report(ctx, file)
	if err != nil {
		return nil, err
	}

	details := &domain.VideoDetails{
		Streams:   mediainfo.StreamRecords(report),
		Subtitles: mediainfo.SubtitleLanguages(report),
		General:   mediainfo.General(report),
	}
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		details.Warnings = append(details.Warnings, msg)
		s.logger.Warn("video release step skipped", "path", file, "reason", msg)
	}

	disc, err := findDiscReport(file)
	switch {
	case err != nil:
		warn("disc report: %v", err)
	case disc != nil:
		details.Disc = disc
	}

	name := releaseName(file)
	parsed := tmdb.ParseReleaseName(name)
	if parsed.Title == "" {
		parsed = tmdb.ParseReleaseName(filepath.Base(filepath.Dir(file)))
	}

	if s.deps.TMDB == nil {
		warn("tmdb lookup is not configured")
	} else if parsed.Title == "" {
		warn("tmdb lookup skipped: no title in %q", name)
	} else if meta, err := s.deps.TMDB.Lookup(ctx, parsed); err != nil {
		warn("tmdb lookup for %q: %v", parsed.Title, err)
	} else {
		details.TMDB = meta
	}

	details.Screenshots = s.screenshots(ctx, file, warn)

	releaseID, err := id.NewRelease()
	if err != nil {
		return nil, fmt.Errorf("generate release id: %w", err)
	}

	title, year := parsed.Title, parsed.Year
	if details.TMDB != nil {
		title, year = details.TMDB.Title, details.TMDB.Year
	}
	if title == "" {
		title = name
	}

	now := time.Now()
	release := &domain.Release{
		ID:          releaseID,
		Kind:        domain.KindVideo,
		Path:        file,
		Name:        name,
		Title:       title,
		Year:        year,
		Description: description.Video(videoInfo(title, year, details)),
		Video:       details,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.save(ctx, release); err != nil {
		return nil, err
	}

	s.logger.Info("video release prepared",
		"id", release.ID,
		"path", file,
		"title", title,
		"streams", len(details.Streams),
		"screenshots", len(details.Screenshots),
		"warnings", len(details.Warnings),
	)
	return release, nil
}

// screenshots captures frames and uploads them. Frames that fail to upload
// are kept without URLs.
func (s *ReleaseService) screenshots(ctx context.Context, file string, warn func(string, ...any)) []domain.Screenshot {
	if s.deps.Screenshots == nil || s.deps.ScreenshotCount <= 0 {
		return nil
	}

	shots, err := s.deps.Screenshots.Capture(ctx, file, s.deps.ScreenshotCount)
	if err != nil {
		warn("screenshots: %v", err)
	}
	if len(shots) == 0 {
		return nil
	}

	out := make([]domain.Screenshot, 0, len(shots))
	for _, shot := range shots {
		out = append(out, domain.Screenshot{Shot: shot})
	}

	if s.deps.Uploader == nil {
		warn("image host is not configured; screenshots were not uploaded")
		return out
	}
	for i := range out {
		img, err := s.deps.Uploader.Upload(ctx, out[i].Path)
		if err != nil {
			warn("upload %s: %v", filepath.Base(out[i].Path), err)
			continue
		}
		out[i].URL, out[i].ThumbURL = img.URL, img.Thumb
	}
	return out
}

func videoInfo(title string, year int, d *domain.VideoDetails) description.VideoInfo {
	info := description.VideoInfo{
		Title:     title,
		Year:      year,
		Streams:   d.Streams,
		Subtitles: d.Subtitles,
		Disc:      d.Disc,
	}
	if d.TMDB != nil {
		info.Overview = d.TMDB.Overview
		info.Genres = d.TMDB.Genres
		info.Poster = d.TMDB.Poster
		info.Link = d.TMDB.Link
	}
	for _, shot := range d.Screenshots {
		if shot.URL != "" {
			info.Screenshots = append(info.Screenshots, description.Screenshot{URL: shot.URL, Thumb: shot.ThumbURL})
		}
	}
	return info
}

// resolveVideo returns path when it is a video file, or the largest video
// file below path when it is a folder.
func resolveVideo(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", domainerrors.Validationf("invalid path %q", path)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", domainerrors.NotFoundf("%s does not exist", abs)
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		if !mediainfo.IsVideoFile(abs) {
			return "", domainerrors.Unsupportedf("%s is not a video file", filepath.Base(abs))
		}
		return abs, nil
	}

	var best string
	var bestSize int64
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !mediainfo.IsVideoFile(p) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		if fi.Size() > bestSize {
			best, bestSize = p, fi.Size()
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if best == "" {
		return "", domainerrors.NotFoundf("no video files in %s", abs)
	}
	return best, nil
}

// findDiscReport looks for BDINFO.txt next to the video and, for a disc
// stream (<release>/BDMV/STREAM/00800.m2ts), in the release folder. A missing
// report is not an error.
func findDiscReport(file string) (*bdinfo.DiscReport, error) {
	dirs := []string{filepath.Dir(file)}
	if root, ok := discRoot(file); ok {
		dirs = append(dirs, root)
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(e.Name(), discReportName) {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			if report := bdinfo.Parse(string(data)); !report.Empty() {
				return report, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

// discRoot returns the release folder of a file inside BDMV/STREAM.
func discRoot(file string) (string, bool) {
	stream := filepath.Dir(file)
	bdmv := filepath.Dir(stream)
	if !strings.EqualFold(filepath.Base(stream), "STREAM") || !strings.EqualFold(filepath.Base(bdmv), "BDMV") {
		return "", false
	}
	return filepath.Dir(bdmv), true
}

// releaseName is the file name without its extension. Disc streams such as
// 00800.m2ts are named after their release folder instead.
func releaseName(file string) string {
	if root, ok := discRoot(file); ok {
		return filepath.Base(root)
	}
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}
