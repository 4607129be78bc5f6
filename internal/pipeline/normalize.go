package pipeline

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"clubarchive/internal"
	"clubarchive/internal/util"
)

// genericDesc is the category every council-funded club carries; it is not
// worth a label.
const genericDesc = "Club Council"

var officerRoleOrder = []string{
	"President",
	"Vice President",
	"Treasurer",
	"Secretary",
}

var socialSources = []struct {
	name   string
	domain string
	value  func(internal.RawClub) string
}{
	{name: "Website", value: func(c internal.RawClub) string { return c.URL }},
	{name: "Facebook", domain: "facebook.com", value: func(c internal.RawClub) string { return c.Facebook }},
	{name: "Twitter", domain: "twitter.com", value: func(c internal.RawClub) string { return c.Twitter }},
}

// NormalizeClub builds the page view model for one club. items must already
// be filtered to the club; their order does not matter. It never fails: codes
// outside the lookup tables resolve to sentinels and absent fields produce
// absent output.
func NormalizeClub(club internal.RawClub, items []internal.RawBudgetItem) Club {
	budgetItems := make([]BudgetItem, 0, len(items))
	for _, item := range items {
		budgetItems = append(budgetItems, NormalizeBudgetItem(item))
	}
	slices.SortStableFunc(budgetItems, func(a, b BudgetItem) int {
		return a.MysqlID - b.MysqlID
	})

	return Club{
		ID:               club.ID,
		MysqlID:          club.MysqlID,
		CreatedAt:        club.Created,
		Name:             util.FixEncoding(club.Name),
		Labels:           ClubLabels(club),
		Description:      util.FixEncoding(club.Descri),
		ClubType:         LookupClubType(club.IntClubType),
		Slug:             club.Slug,
		Welcome:          ClubWelcome(club),
		Social:           SocialLinks(club),
		Status:           ClubStatus{IsActive: club.IsActive == 1, IsRecognized: club.IsRecognized == 1},
		AccountNumber:    club.AccountNumber,
		CCRepresentative: NetID(club.BoardShort),
		Advisor:          NetID(club.AdvShort),
		MembersCount:     club.Members,
		Dues:             club.Dues,
		Calendar:         club.Calendar,
		Officers:         Officers(club.Officers),
		Sub:              Substitute{NetID: NetID(club.SubShort), Phone: club.SubPhone},
		Constitution:     util.FixEncoding(util.CleanConstitution(club.Constit)),
		BudgetClosed:     club.BudgetClosed == 1,
		ApptSet:          club.ApptSet == 1,
		NoBudget:         club.NoBudget == 1,
		BudgetItems:      budgetItems,
	}
}

func ClubLabels(club internal.RawClub) []Label {
	labels := []Label{}
	if club.Desc != "" && club.Desc != genericDesc {
		labels = append(labels, Label{Name: club.Desc, Style: LabelPrimary})
	}
	if club.MysqlID == 0 {
		labels = append(labels, Label{Name: "Placeholder", Style: LabelDanger})
	}
	return labels
}

// ClubWelcome is nil unless both the title and the text are set.
func ClubWelcome(club internal.RawClub) *Welcome {
	if club.WelcTitle == "" || club.WelcText == "" {
		return nil
	}
	return &Welcome{
		Title: util.FixEncoding(club.WelcTitle),
		Text:  util.FixEncoding(club.WelcText),
	}
}

func SocialLinks(club internal.RawClub) []SocialLink {
	links := []SocialLink{}
	for _, src := range socialSources {
		value := src.value(club)
		if value == "" {
			continue
		}
		links = append(links, SocialLink{Name: src.name, URL: util.AddScheme(value, src.domain)})
	}
	return links
}

// Officers keeps the slots with both a name and a role, ordered President,
// Vice President, Treasurer, Secretary, then every other role alphabetically.
func Officers(slots [internal.OfficerSlots]internal.OfficerSlot) []Officer {
	officers := []Officer{}
	for _, slot := range slots {
		if slot.NameShort == "" || slot.Role == "" {
			continue
		}
		officers = append(officers, Officer{NetID: NetID(slot.NameShort), Role: slot.Role})
	}

	coll := collate.New(language.English)
	slices.SortStableFunc(officers, func(a, b Officer) int {
		ai := slices.Index(officerRoleOrder, a.Role)
		bi := slices.Index(officerRoleOrder, b.Role)
		switch {
		case ai == -1 && bi == -1:
			return coll.CompareString(a.Role, b.Role)
		case ai == -1:
			return 1
		case bi == -1:
			return -1
		default:
			return ai - bi
		}
	})
	return officers
}

func NormalizeBudgetItem(item internal.RawBudgetItem) BudgetItem {
	requestType := LookupRequestType(item.TypeID)
	isBOE := requestType != nil && requestType.ID == RequestTypeBOE

	granted := decimal.NewFromFloat(item.GrantTotal)
	if isBOE {
		granted = decimal.NewFromFloat(item.Total)
	}

	return BudgetItem{
		ID:          item.ID,
		MysqlID:     item.MysqlID,
		CreatedAt:   item.Created,
		Name:        util.FixEncoding(item.Name),
		Description: util.FixEncoding(item.Descri),
		Date:        item.Date,
		Semester:    LookupSemester(item.SemesterID),
		Type:        requestType,
		IsBOE:       isBOE,
		Creator:     NetID(strings.ToLower(item.Creator)),
		Attendees:   item.Attendees,
		Aggregation: Aggregation{
			TotalBreakdown: decimal.NewFromFloat(item.Total),
			TotalRequested: decimal.NewFromFloat(item.RequestTotal),
			TotalGranted:   granted,
		},
		Breakdown: Breakdown(item.Lines),
		Status:    util.FixEncoding(item.Status),
		SA:        item.SA,
	}
}

// Breakdown keeps the cost lines whose expense name is not blank. Line
// amounts are reported as stored; they are not reconciled with the totals.
func Breakdown(lines [internal.BreakdownSlots]internal.BreakdownSlot) []BreakdownLine {
	out := []BreakdownLine{}
	for _, line := range lines {
		if strings.TrimSpace(line.Exp) == "" {
			continue
		}
		out = append(out, BreakdownLine{
			Name:      util.FixEncoding(line.Exp),
			Cost:      decimal.NewFromFloat(line.Cost),
			Requested: decimal.NewFromFloat(line.Req),
			Granted:   decimal.NewFromFloat(line.Grant),
		})
	}
	return out
}
