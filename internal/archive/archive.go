// Package archive names and verifies the per-club PDF printouts of the site.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"clubarchive/internal/util"
)

var unsafeChars = strings.NewReplacer("/", "-", ":", "-", "?", "-")

// FileName is the printout name for a club, with path-hostile characters
// replaced by "-".
func FileName(title, clubName string) string {
	return unsafeChars.Replace(title + " — " + clubName + ".pdf")
}

type Entry struct {
	MysqlID int
	Name    string
}

type Result struct {
	MysqlID     int    `json:"mysqlId"`
	File        string `json:"file"`
	Exists      bool   `json:"exists"`
	Pages       int    `json:"pages"`
	NameOnCover bool   `json:"nameOnCover"`
	Error       string `json:"error,omitempty"`
}

func (r Result) OK() bool {
	return r.Exists && r.Error == "" && r.Pages > 0 && r.NameOnCover
}

// Verify opens the expected printout of every entry in dir. A missing or
// unreadable file is reported in its result, not returned.
func Verify(dir, title string, entries []Entry) ([]Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		res := Result{MysqlID: e.MysqlID, File: FileName(title, e.Name)}
		pages, cover, err := inspect(filepath.Join(dir, res.File))
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			res.Exists = true
			res.Error = err.Error()
		default:
			res.Exists = true
			res.Pages = pages
			res.NameOnCover = strings.Contains(util.NormalizeSpaces(cover), util.NormalizeSpaces(e.Name))
		}
		results = append(results, res)
	}
	return results, nil
}

func inspect(path string) (pages int, cover string, err error) {
	if _, err := os.Stat(path); err != nil {
		return 0, "", err
	}

	// the pdf reader panics on some malformed xref tables
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages = r.NumPage()
	if pages == 0 {
		return 0, "", nil
	}
	first := r.Page(1)
	if first.V.IsNull() {
		return pages, "", nil
	}
	cover, err = first.GetPlainText(nil)
	if err != nil {
		return pages, "", fmt.Errorf("read first page: %w", err)
	}
	return pages, cover, nil
}
