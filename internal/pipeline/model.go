package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NetID is a campus login name; the contact address is <netid>@<domain>.
type NetID string

type LabelStyle string

const (
	LabelPrimary LabelStyle = "primary"
	LabelDanger  LabelStyle = "danger"
)

type Label struct {
	Name  string     `json:"name"`
	Style LabelStyle `json:"style"`
}

type Welcome struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ClubStatus struct {
	IsActive     bool `json:"isActive"`
	IsRecognized bool `json:"isRecognized"`
}

type Officer struct {
	NetID NetID  `json:"netId"`
	Role  string `json:"role"`
}

type Substitute struct {
	NetID NetID  `json:"name"`
	Phone string `json:"phone"`
}

// Club is the view model of one archive page.
type Club struct {
	ID               int          `json:"id"`
	MysqlID          int          `json:"mysqlId"`
	CreatedAt        string       `json:"createdAt"`
	Name             string       `json:"name"`
	Labels           []Label      `json:"labels"`
	Description      string       `json:"description"`
	ClubType         ClubType     `json:"clubType"`
	Slug             string       `json:"slug,omitempty"`
	Welcome          *Welcome     `json:"welcome"`
	Social           []SocialLink `json:"social"`
	Status           ClubStatus   `json:"status"`
	AccountNumber    string       `json:"accountNumber"`
	CCRepresentative NetID        `json:"ccRepresentative"`
	Advisor          NetID        `json:"advisor"`
	MembersCount     string       `json:"membersCount"`
	Dues             string       `json:"dues,omitempty"`
	Calendar         string       `json:"calendar"`
	Officers         []Officer    `json:"officers"`
	Sub              Substitute   `json:"sub"`
	Constitution     string       `json:"constitution"`
	BudgetClosed     bool         `json:"budgetClosed"`
	ApptSet          bool         `json:"apptSet"`
	NoBudget         bool         `json:"noBudget"`
	BudgetItems      []BudgetItem `json:"budgetItems"`
}

// IsPlaceholder reports the reserved mysqlId 0 record that only holds budget
// history of deleted clubs.
func (c Club) IsPlaceholder() bool {
	return c.MysqlID == 0
}

// AlternateName is the slug when it is set and differs from the name.
func (c Club) AlternateName() string {
	if strings.TrimSpace(c.Slug) == "" || c.Slug == c.Name {
		return ""
	}
	return c.Slug
}

// Totals sums the item aggregates, BOE override included.
func (c Club) Totals() Aggregation {
	total := Aggregation{
		TotalBreakdown: decimal.Zero,
		TotalRequested: decimal.Zero,
		TotalGranted:   decimal.Zero,
	}
	for _, item := range c.BudgetItems {
		total.TotalBreakdown = total.TotalBreakdown.Add(item.Aggregation.TotalBreakdown)
		total.TotalRequested = total.TotalRequested.Add(item.Aggregation.TotalRequested)
		total.TotalGranted = total.TotalGranted.Add(item.Aggregation.TotalGranted)
	}
	return total
}

// NetIDs lists every person referenced by the club, without duplicates and
// in page order.
func (c Club) NetIDs() []NetID {
	seen := map[NetID]struct{}{}
	var out []NetID
	add := func(id NetID) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(c.Advisor)
	for _, o := range c.Officers {
		add(o.NetID)
	}
	add(c.CCRepresentative)
	add(c.Sub.NetID)
	for _, item := range c.BudgetItems {
		add(item.Creator)
	}
	return out
}

type Aggregation struct {
	TotalBreakdown decimal.Decimal `json:"totalBreakdown"`
	TotalRequested decimal.Decimal `json:"totalRequested"`
	TotalGranted   decimal.Decimal `json:"totalGranted"`
}

type BreakdownLine struct {
	Name      string          `json:"name"`
	Cost      decimal.Decimal `json:"cost"`
	Requested decimal.Decimal `json:"requested"`
	Granted   decimal.Decimal `json:"granted"`
}

type BudgetItem struct {
	ID          int             `json:"id"`
	MysqlID     int             `json:"mysqlId"`
	CreatedAt   string          `json:"createdAt"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Semester    *Semester       `json:"semester"`
	Type        *RequestType    `json:"type"`
	IsBOE       bool            `json:"isBOE"`
	Creator     NetID           `json:"creator"`
	Attendees   string          `json:"attendees"`
	Aggregation Aggregation     `json:"aggregation"`
	Breakdown   []BreakdownLine `json:"breakdown"`
	Status      string          `json:"status"`
	SA          string          `json:"sa"`
}

// SpecialAllocation is true for any non-empty sa marker.
func (b BudgetItem) SpecialAllocation() bool {
	return b.SA != ""
}

// DisplayName is the heading the archive prints for the item.
func (b BudgetItem) DisplayName() string {
	if b.IsBOE {
		return "Basic Operating Expenses"
	}
	if b.Name != "" {
		return b.Name
	}
	return "(Unnamed Item)"
}
