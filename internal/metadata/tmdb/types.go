package tmdb

import (
	"strconv"
	"strings"
)

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieResult is one hit of a movie search.
type MovieResult struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	ReleaseDate   string  `json:"release_date"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	Popularity    float64 `json:"popularity"`
}

// Year is the release year, or 0 when TMDB has no date.
func (m MovieResult) Year() int { return yearOf(m.ReleaseDate) }

// TVResult is one hit of a TV search.
type TVResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	Popularity   float64 `json:"popularity"`
}

// Year is the first air year, or 0 when unknown.
func (t TVResult) Year() int { return yearOf(t.FirstAirDate) }

// Movie holds movie details.
type Movie struct {
	MovieResult
	Runtime int     `json:"runtime"`
	IMDbID  string  `json:"imdb_id"`
	Tagline string  `json:"tagline"`
	Genres  []Genre `json:"genres"`
}

// TV holds series details.
type TV struct {
	TVResult
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	Genres           []Genre `json:"genres"`
}

// Kind distinguishes movies from series.
type Kind string

// Kinds of title.
const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// Details is the kind-independent summary used in descriptions.
type Details struct {
	ID       int      `json:"id"`
	Kind     Kind     `json:"kind"`
	Title    string   `json:"title"`
	Year     int      `json:"year,omitempty"`
	Overview string   `json:"overview,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Poster   string   `json:"poster,omitempty"`
	Link     string   `json:"link"`
}

type searchResponse[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalResults int `json:"total_results"`
}

const (
	imageBaseURL = "https://image.tmdb.org/t/p/w500"
	siteBaseURL  = "https://www.themoviedb.org"
)

func (m *Movie) details() *Details {
	return &Details{
		ID:       m.ID,
		Kind:     KindMovie,
		Title:    m.Title,
		Year:     m.Year(),
		Overview: m.Overview,
		Genres:   genreNames(m.Genres),
		Poster:   posterURL(m.PosterPath),
		Link:     siteBaseURL + "/movie/" + strconv.Itoa(m.ID),
	}
}

func (t *TV) details() *Details {
	return &Details{
		ID:       t.ID,
		Kind:     KindTV,
		Title:    t.Name,
		Year:     t.Year(),
		Overview: t.Overview,
		Genres:   genreNames(t.Genres),
		Poster:   posterURL(t.PosterPath),
		Link:     siteBaseURL + "/tv/" + strconv.Itoa(t.ID),
	}
}

func genreNames(genres []Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}

func yearOf(date string) int {
	y, _, _ := strings.Cut(date, "-")
	n, err := strconv.Atoi(y)
	if err != nil || len(y) != 4 {
		return 0
	}
	return n
}
