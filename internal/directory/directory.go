// Package directory resolves campus net ids to contact details.
package directory

import (
	"fmt"
	"os"
	"strings"

	"github.com/titanous/json5"

	"clubarchive/internal"
)

type Contact struct {
	NetID string   `json:"netId"`
	Email string   `json:"email"`
	Name  string   `json:"name,omitempty"`
	Jobs  []string `json:"jobs,omitempty"`
}

type fileEntry struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Job   string `json:"job"`
}

// Directory is keyed by email address; an address is <netid>@<domain>.
type Directory struct {
	domain  string
	byEmail map[string]fileEntry
}

func New(domain string) *Directory {
	return &Directory{domain: domain, byEmail: map[string]fileEntry{}}
}

// LoadFile merges a JSON5 array of {email, name, job} objects. A missing
// file is not an error.
func (d *Directory) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var entries []fileEntry
	if err := json5.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse directory %s: %w", path, err)
	}
	for _, e := range entries {
		d.add(e)
	}
	return nil
}

// AddUserMappings merges usermapping rows. Rows without an email use the
// row name as net id.
func (d *Directory) AddUserMappings(rows []internal.RawUserMapping) {
	for _, r := range rows {
		email := r.Email
		if email == "" && r.Name != "" {
			email = d.Email(r.Name)
		}
		d.add(fileEntry{Email: email, Name: r.FullName, Job: r.Job})
	}
}

func (d *Directory) add(e fileEntry) {
	key := strings.ToLower(strings.TrimSpace(e.Email))
	if key == "" {
		return
	}
	e.Email = key
	if prev, ok := d.byEmail[key]; ok {
		if e.Name == "" {
			e.Name = prev.Name
		}
		if e.Job == "" {
			e.Job = prev.Job
		}
	}
	d.byEmail[key] = e
}

func (d *Directory) Email(netID string) string {
	return strings.ToLower(netID) + "@" + d.domain
}

func (d *Directory) Len() int {
	return len(d.byEmail)
}

// Lookup always returns a contact with an address; name and jobs are set
// only when the directory knows the person.
func (d *Directory) Lookup(netID string) (Contact, bool) {
	email := d.Email(netID)
	c := Contact{NetID: netID, Email: email}
	e, ok := d.byEmail[email]
	if !ok {
		return c, false
	}
	c.Name = e.Name
	c.Jobs = splitJobs(e.Job)
	return c, true
}

func splitJobs(job string) []string {
	var out []string
	for _, j := range strings.Split(job, ",") {
		if j = strings.TrimSpace(j); j != "" {
			out = append(out, j)
		}
	}
	return out
}
