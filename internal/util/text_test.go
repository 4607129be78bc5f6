package util

import (
	"reflect"
	"testing"
)

func TestFixEncoding(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "apostrophe", input: "Club\u00e2\u20ac\u2122s", want: "Club's"},
		{name: "en dash", input: "2008\u00e2\u20ac\u201c2009", want: "2008-2009"},
		{name: "quotes", input: "\u00e2\u20ac\u0153Hi\u00e2\u20ac\u009d", want: `"Hi"`},
		{name: "ellipsis", input: "wait\u00e2\u20ac\u00a6", want: "wait..."},
		{name: "line separator", input: "a\u00e2\u20ac\u00a8b", want: "a b"},
		{name: "replacement char", input: "a\u00ef\u00bf\u00bdb", want: "a b"},
		{name: "accented", input: "Mar\u00c3\u00a1'\u00c3\u00ad", want: "Mar\u00e1'\u00ed"},
		{name: "clean text untouched", input: "Chess Club", want: "Chess Club"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FixEncoding(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestCleanConstitution(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "tags", input: "<p>Article <b>I</b></p>", want: "Article I"},
		{name: "unterminated tag", input: "Name<br", want: "Name"},
		{name: "triple escaped", input: "Tom &amp;amp;amp; Jerry", want: "Tom & Jerry"},
		{name: "escaped markup survives", input: "a &amp;lt;b&amp;gt; c", want: "a <b> c"},
		{name: "nbsp", input: "a&nbsp;b", want: "a b"},
		{name: "escaped nbsp", input: "a&amp;nbsp;b", want: "a b"},
		{name: "quotes", input: "&quot;x&quot; &#39;y&#39;", want: `"x" 'y'`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanConstitution(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestCleanConstitutionStopsAfterThreePasses(t *testing.T) {
	got := CleanConstitution("&amp;amp;amp;amp;")
	if got != "&amp;" {
		t.Fatalf("got %q", got)
	}
}

func TestAddScheme(t *testing.T) {
	cases := []struct {
		name   string
		value  string
		domain string
		want   string
	}{
		{name: "already absolute", value: "https://example.org", want: "https://example.org"},
		{name: "http kept", value: "http://example.org", domain: "twitter.com", want: "http://example.org"},
		{name: "handle", value: "@myclub", domain: "twitter.com", want: "https://twitter.com/myclub"},
		{name: "handle without domain", value: "@myclub", want: "http://@myclub"},
		{name: "bare host", value: "www.example.org", want: "http://www.example.org"},
		{name: "facebook path", value: "facebook.com/club", domain: "facebook.com", want: "http://facebook.com/club"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AddScheme(tc.value, tc.domain); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("\r\nfirst\r\n\r\nsecond\n")
	want := []string{"first", "", "second"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
	if len(Paragraphs("")) != 0 {
		t.Fatal("blank text should give no lines")
	}
}
