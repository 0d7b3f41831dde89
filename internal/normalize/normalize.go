// Package normalize turns the loosely formatted values found in tags and
// diagnostic reports into canonical forms.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/unicode/norm"
)

// bibliographic maps ISO 639-2/B codes to their terminology equivalents.
//
//nolint:gochecknoglobals // Static lookup table
var bibliographic = map[string]string{
	"ger": "deu", "fre": "fra", "dut": "nld", "chi": "zho", "cze": "ces",
	"gre": "ell", "per": "fas", "rum": "ron", "slo": "slk", "alb": "sqi",
	"arm": "hye", "baq": "eus", "bur": "mya", "geo": "kat", "ice": "isl",
	"mac": "mkd", "may": "msa", "tib": "bod", "wel": "cym",
}

// languageNames maps English language names, as written by mediainfo and
// disc reports, to ISO 639-1 codes.
//
//nolint:gochecknoglobals // Static lookup table
var languageNames = map[string]string{
	"english": "en", "spanish": "es", "french": "fr", "german": "de",
	"italian": "it", "portuguese": "pt", "dutch": "nl", "russian": "ru",
	"japanese": "ja", "chinese": "zh", "korean": "ko", "arabic": "ar",
	"hindi": "hi", "polish": "pl", "swedish": "sv", "norwegian": "no",
	"danish": "da", "finnish": "fi", "turkish": "tr", "greek": "el",
	"hebrew": "he", "czech": "cs", "hungarian": "hu", "romanian": "ro",
	"thai": "th", "vietnamese": "vi", "indonesian": "id", "malay": "ms",
	"ukrainian": "uk", "catalan": "ca", "croatian": "hr", "slovak": "sk",
	"bulgarian": "bg", "lithuanian": "lt", "latvian": "lv", "estonian": "et",
	"slovenian": "sl", "serbian": "sr", "persian": "fa", "farsi": "fa",
	"icelandic": "is", "tamil": "ta", "telugu": "te", "bengali": "bn",
	"mandarin": "zh", "cantonese": "zh", "filipino": "fil", "tagalog": "tl",
}

// LanguageCode converts a language code, locale or English name to its
// shortest ISO 639 code: "eng", "en-US" and "English" all give "en".
// Unrecognized values give "".
func LanguageCode(raw string) string {
	base, ok := parseBase(raw)
	if !ok {
		return ""
	}
	return base.String()
}

// Language converts a language code, locale or name to its English display
// name ("deu" gives "German"). Unrecognized values give "".
func Language(raw string) string {
	base, ok := parseBase(raw)
	if !ok {
		return ""
	}
	return display.English.Languages().Name(base)
}

func parseBase(raw string) (language.Base, bool) {
	s := strings.ToLower(strings.TrimSpace(Sanitize(raw)))
	if s == "" {
		return language.Base{}, false
	}

	if code, ok := languageNames[s]; ok {
		s = code
	}
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}
	if t, ok := bibliographic[s]; ok {
		s = t
	}
	if len(s) != 2 && len(s) != 3 {
		return language.Base{}, false
	}

	base, err := language.ParseBase(s)
	if err != nil || base.String() == "und" {
		return language.Base{}, false
	}
	return base, true
}

// Sanitize drops NUL bytes, which some tag writers leave as terminators.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	genreSeparators = regexp.MustCompile(`\s*[,;/]\s*`)
)

// TagSlug converts a genre to a tracker tag: accents are folded, the result
// is lower-cased and runs of other characters become a single dot.
// "Hip-Hop" gives "hip.hop".
func TagSlug(s string) string {
	s = norm.NFKD.String(Sanitize(s))
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, ".")
	return strings.Trim(s, ".")
}

// TagSlugs splits a multi-valued genre ("Rock; Pop") and returns the
// distinct non-empty slugs in order.
func TagSlugs(genre string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range genreSeparators.Split(genre, -1) {
		slug := TagSlug(part)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	return out
}
