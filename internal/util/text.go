package util

import (
	"regexp"
	"strings"
)

var (
	reTags   = regexp.MustCompile(`<[^>]*>?`)
	reSpaces = regexp.MustCompile(`\s+`)
)

// mojibakeFixes maps UTF-8 text that was decoded as Windows-1252 and
// re-encoded back to the character that was meant (right single quote,
// en dash, double quotes, ellipsis, line separator, U+FFFD, "á'í").
// Applied in order.
var mojibakeFixes = []struct {
	broken string
	fixed  string
}{
	{"\u00e2\u20ac\u2122", "'"},
	{"\u00e2\u20ac\u201c", "-"},
	{"\u00e2\u20ac\u0153", `"`},
	{"\u00e2\u20ac\u009d", `"`},
	{"\u00e2\u20ac\u00a6", "..."},
	{"\u00e2\u20ac\u00a8", " "},
	{"\u00ef\u00bf\u00bd", " "},
	{"\u00c3\u00a1'\u00c3\u00ad", "\u00e1'\u00ed"},
}

// basicEntities is the entity set the legacy site escaped; anything else
// (&nbsp; included) is left alone.
var basicEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

const unescapePasses = 3

func FixEncoding(input string) string {
	s := input
	for _, f := range mojibakeFixes {
		s = strings.ReplaceAll(s, f.broken, f.fixed)
	}
	return s
}

// StripTags removes anything that looks like a tag, including an
// unterminated "<..." at the end of the input.
func StripTags(input string) string {
	return reTags.ReplaceAllString(input, "")
}

// UnescapeEntities decodes the basic entity set once.
func UnescapeEntities(input string) string {
	return basicEntities.Replace(input)
}

// CleanConstitution strips markup from legacy constitution text and undoes
// up to three layers of entity escaping.
func CleanConstitution(input string) string {
	if input == "" {
		return ""
	}
	s := StripTags(input)
	for i := 0; i < unescapePasses; i++ {
		next := UnescapeEntities(s)
		if next == s {
			break
		}
		s = next
	}
	return strings.ReplaceAll(s, "&nbsp;", " ")
}

// AddScheme turns a stored link into an absolute URL. Values already starting
// with "http" pass through, "@handle" becomes https://<domain>/handle when a
// domain is known, anything else gets an http:// prefix.
func AddScheme(value, domain string) string {
	if strings.HasPrefix(value, "http") {
		return value
	}
	if strings.HasPrefix(value, "@") && domain != "" {
		return "https://" + domain + "/" + value[1:]
	}
	return "http://" + value
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// TrimBlankEdges drops one leading and one trailing blank line.
func TrimBlankEdges(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	if strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Paragraphs splits free text into lines the way the archive pages print it.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return TrimBlankEdges(strings.Split(text, "\n"))
}
