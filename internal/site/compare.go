package site

import (
	"slices"
	"strings"

	"clubarchive/internal/util"
)

// Expected is a club page the archive should contain.
type Expected struct {
	Path string
	Name string
}

type Mismatch struct {
	Path string `json:"path"`
	Want string `json:"want"`
	Got  string `json:"got"`
}

type Report struct {
	Checked    int        `json:"checked"`
	Missing    []string   `json:"missing"`
	Broken     []Page     `json:"broken"`
	Mismatched []Mismatch `json:"mismatched"`
}

func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Broken) == 0 && len(r.Mismatched) == 0
}

// Compare matches crawled pages against the expected club pages by path.
// Names are compared after whitespace normalization.
func Compare(pages []Page, expected []Expected) Report {
	byPath := make(map[string]Page, len(pages))
	for _, p := range pages {
		byPath[p.Path] = p
	}

	report := Report{Checked: len(pages), Missing: []string{}, Broken: []Page{}, Mismatched: []Mismatch{}}
	for _, want := range expected {
		path := strings.TrimRight(want.Path, "/")
		page, ok := byPath[path]
		switch {
		case !ok:
			report.Missing = append(report.Missing, path)
		case page.Status != 200:
			report.Broken = append(report.Broken, page)
		default:
			wantName := util.NormalizeSpaces(want.Name)
			if page.ClubName != wantName {
				report.Mismatched = append(report.Mismatched, Mismatch{Path: path, Want: wantName, Got: page.ClubName})
			}
		}
	}

	slices.Sort(report.Missing)
	return report
}
