// Package search provides full-text search over prepared releases using Bleve.
package search

import (
	"github.com/relprep/relprep/internal/domain"
	"github.com/relprep/relprep/internal/normalize"
)

// Document is the indexed form of a release.
type Document struct {
	ID        string
	Kind      string
	Name      string
	Title     string
	Artist    string
	Genres    []string // tag slugs
	Year      int
	Overview  string
	Languages []string
}

// ToMap converts the document to the lower-case field names of the mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":    d.ID,
		"kind":  d.Kind,
		"name":  d.Name,
		"title": d.Title,
	}
	if d.Artist != "" {
		m["artist"] = d.Artist
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}
	if d.Overview != "" {
		m["overview"] = d.Overview
	}
	if len(d.Languages) > 0 {
		m["languages"] = d.Languages
	}
	return m
}

// ReleaseToDocument extracts the searchable fields of a release.
func ReleaseToDocument(r *domain.Release) *Document {
	doc := &Document{
		ID:    r.ID,
		Kind:  string(r.Kind),
		Name:  r.Name,
		Title: r.Title,
		Year:  r.Year,
	}

	if a := r.Audio; a != nil {
		switch {
		case a.Album.AlbumArtist != nil:
			doc.Artist = *a.Album.AlbumArtist
		case a.Album.Artist != nil:
			doc.Artist = *a.Album.Artist
		}
		if a.Album.Genre != nil {
			doc.Genres = normalize.TagSlugs(*a.Album.Genre)
		}
	}

	if v := r.Video; v != nil {
		if v.TMDB != nil {
			doc.Overview = v.TMDB.Overview
			for _, g := range v.TMDB.Genres {
				if slug := normalize.TagSlug(g); slug != "" {
					doc.Genres = append(doc.Genres, slug)
				}
			}
		}
		seen := map[string]bool{}
		for _, s := range v.Streams {
			if code := normalize.LanguageCode(s.Language); code != "" && !seen[code] {
				seen[code] = true
				doc.Languages = append(doc.Languages, code)
			}
		}
	}

	return doc
}
