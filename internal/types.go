package internal

// OfficerSlots and BreakdownSlots are the fixed slot counts of the legacy
// club and budgetitems tables (name1_short/role1 .. name10_short/role10,
// exp1/cost1/req1/grant1 .. exp5/...).
const (
	OfficerSlots   = 10
	BreakdownSlots = 5
)

type OfficerSlot struct {
	NameShort string
	Role      string
}

type BreakdownSlot struct {
	Exp   string
	Cost  float64
	Req   float64
	Grant float64
}

// RawClub is one row of the legacy club table. Optional text columns are
// the empty string when NULL.
type RawClub struct {
	ID            int
	MysqlID       int
	Name          string
	Descri        string
	Desc          string
	Slug          string
	IntClubType   int
	WelcTitle     string
	WelcText      string
	URL           string
	Facebook      string
	Twitter       string
	IsActive      int
	IsRecognized  int
	AccountNumber string
	BoardShort    string
	AdvShort      string
	Members       string
	Dues          string
	Calendar      string
	Officers      [OfficerSlots]OfficerSlot
	SubShort      string
	SubPhone      string
	Created       string
	Constit       string
	BudgetClosed  int
	ApptSet       int
	NoBudget      int
}

// RawBudgetItem is one row of the legacy budgetitems table. ClubID refers to
// the club's MysqlID.
type RawBudgetItem struct {
	ID           int
	MysqlID      int
	ClubID       int
	Name         string
	Descri       string
	Date         string
	SemesterID   int
	TypeID       int
	Creator      string
	Attendees    string
	Lines        [BreakdownSlots]BreakdownSlot
	Total        float64
	RequestTotal float64
	GrantTotal   float64
	Status       string
	Created      string
	SA           string
}

// RawUserMapping is one row of the legacy usermapping table.
type RawUserMapping struct {
	Name     string
	Email    string
	FullName string
	Job      string
}

type RunCounts struct {
	Clubs       int `json:"clubs"`
	BudgetItems int `json:"budgetItems"`
	Orphaned    int `json:"orphaned"`
	Written     int `json:"written"`
}
