package audio

import (
	"regexp"
	"strconv"
	"strings"
)

// id3v1Genres is the ID3v1 genre table including the Winamp extensions up to 79.
var id3v1Genres = []string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge", "Hip-Hop",
	"Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B", "Rap",
	"Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska", "Death Metal", "Pranks",
	"Soundtrack", "Euro-Techno", "Ambient", "Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance",
	"Classical", "Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel", "Noise",
	"AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative", "Instrumental Pop", "Instrumental Rock",
	"Ethnic", "Gothic", "Darkwave", "Techno-Industrial", "Electronic", "Pop-Folk", "Eurodance", "Dream",
	"Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40", "Christian Rap", "Pop/Funk", "Jungle",
	"Native American", "Cabaret", "New Wave", "Psychadelic", "Rave", "Showtunes", "Trailer", "Lo-Fi",
	"Tribal", "Acid Punk", "Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll", "Hard Rock",
}

var genreRef = regexp.MustCompile(`^\((\d+)\)(.*)$`)

// resolveID3Genre turns "(17)", "(17)Rock" or "17" into a genre name. Any
// other value is returned unchanged.
func resolveID3Genre(v string) string {
	if m := genreRef.FindStringSubmatch(v); m != nil {
		if rest := strings.TrimSpace(m[2]); rest != "" {
			return rest
		}
		v = m[1]
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return v
	}
	if n >= 0 && n < len(id3v1Genres) {
		return id3v1Genres[n]
	}
	return v
}
