// Package mediainfo parses the text report printed by the mediainfo CLI into
// per-stream records.
//
// A report is a sequence of blocks, each introduced by a kind marker such as
// "Audio #1" (or "Audio" when the container holds a single stream of that
// kind) and followed by "Key : Value" lines up to the next blank line.
package mediainfo

import (
	"iter"
	"regexp"
	"strings"
)

// Stream kinds as printed by mediainfo.
const (
	KindGeneral = "General"
	KindVideo   = "Video"
	KindAudio   = "Audio"
	KindText    = "Text"
	KindMenu    = "Menu"
)

// Sections yields the raw body of every kind block in report order.
//
// Numbered markers ("Audio #1", "Audio #2", ...) take precedence. When the
// report has none, the body following the first bare marker ("Audio") is
// yielded as the only section. A report without any marker yields nothing.
// Each body ends at the next numbered marker, a blank line, or end of input.
//
// The returned sequence is lazy and may be ranged over more than once.
func Sections(report, kind string) iter.Seq[string] {
	numbered := regexp.MustCompile(`^` + regexp.QuoteMeta(kind) + `\s+#\d+$`)

	return func(yield func(string) bool) {
		lines := splitLines(report)

		found := false
		for body := range blocks(lines, numbered.MatchString, numbered.MatchString) {
			found = true
			if !yield(body) {
				return
			}
		}
		if found {
			return
		}

		bare := func(line string) bool { return line == kind }
		for body := range blocks(lines, bare, numbered.MatchString) {
			yield(body)
			return
		}
	}
}

// AudioSections is Sections(report, KindAudio).
func AudioSections(report string) iter.Seq[string] {
	return Sections(report, KindAudio)
}

// blocks yields the text following every line accepted by start. A block
// stops at a blank line or a line accepted by stop.
func blocks(lines []string, start, stop func(string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < len(lines); i++ {
			if !start(strings.TrimSpace(lines[i])) {
				continue
			}

			j := i + 1
			for j < len(lines) {
				trimmed := strings.TrimSpace(lines[j])
				if trimmed == "" || stop(trimmed) {
					break
				}
				j++
			}

			if !yield(strings.Join(lines[i+1:j], "\n")) {
				return
			}
			i = j - 1
		}
	}
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
