package description

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// bbcodeTags rewrites the BBCode subset used by the renderers into HTML.
// img runs before url so linked thumbnails nest correctly.
var bbcodeTags = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`(?s)\[b\](.*?)\[/b\]`), "<strong>$1</strong>"},
	{regexp.MustCompile(`(?s)\[i\](.*?)\[/i\]`), "<em>$1</em>"},
	{regexp.MustCompile(`(?s)\[u\](.*?)\[/u\]`), "<u>$1</u>"},
	{regexp.MustCompile(`(?s)\[size=\d+\](.*?)\[/size\]`), "$1"},
	{regexp.MustCompile(`(?s)\[center\](.*?)\[/center\]`), "<div>$1</div>"},
	{regexp.MustCompile(`(?s)\[quote\](.*?)\[/quote\]`), "<blockquote>$1</blockquote>"},
	{regexp.MustCompile(`\[list(=1)?\]\n?`), "<ul>"},
	{regexp.MustCompile(`\[/list\]\n?`), "</ul>"},
	{regexp.MustCompile(`\[\*\]([^\n]*)\n?`), "<li>$1</li>"},
}

var (
	imgTag = regexp.MustCompile(`\[img\](.*?)\[/img\]`)
	urlTag = regexp.MustCompile(`(?s)\[url=([^\]]+)\](.*?)\[/url\]`)
)

// ToHTML converts rendered BBCode to an HTML fragment. Text outside tags is
// escaped and line breaks become <br>. Image and link targets other than
// http(s) are dropped, keeping only the link text.
func ToHTML(bbcode string) string {
	s := html.EscapeString(bbcode)
	for _, t := range bbcodeTags {
		s = t.pattern.ReplaceAllString(s, t.replace)
	}
	s = imgTag.ReplaceAllStringFunc(s, func(m string) string {
		src := imgTag.FindStringSubmatch(m)[1]
		if !isWebURL(html.UnescapeString(src)) {
			return ""
		}
		return `<img src="` + src + `" alt="">`
	})
	s = urlTag.ReplaceAllStringFunc(s, func(m string) string {
		sub := urlTag.FindStringSubmatch(m)
		if !isWebURL(html.UnescapeString(sub[1])) {
			return sub[2]
		}
		return `<a href="` + sub[1] + `">` + sub[2] + `</a>`
	})

	var out strings.Builder
	for i, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if i > 0 {
			out.WriteString("<br>\n")
		}
		out.WriteString(line)
	}
	return "<p>" + out.String() + "</p>"
}

// isWebURL reports whether raw is an absolute http or https URL.
func isWebURL(raw string) bool {
	if strings.ContainsAny(raw, "[]") {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Scheme, "http") || strings.EqualFold(u.Scheme, "https")
}

// plain keeps upstream text from opening or closing BBCode tags.
func plain(s string) string {
	return bbcodeBrackets.Replace(s)
}

var bbcodeBrackets = strings.NewReplacer("[", "(", "]", ")")

// ToMarkdown converts rendered BBCode to Markdown through its HTML form.
func ToMarkdown(bbcode string) (string, error) {
	if strings.TrimSpace(bbcode) == "" {
		return "", nil
	}
	md, err := htmltomarkdown.ConvertString(ToHTML(bbcode))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
