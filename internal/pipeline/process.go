package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"clubarchive/internal"
	"clubarchive/internal/config"
	"clubarchive/internal/directory"
	"clubarchive/internal/storage"
	"clubarchive/internal/util"
)

const lastRunKey = "build.last_run"

// ClubDocument is what gets written for one club page: the normalized club
// plus the derived values and resolved contacts the page shows.
type ClubDocument struct {
	Club
	AlternateName string                      `json:"alternateName,omitempty"`
	Placeholder   bool                        `json:"placeholder"`
	CreatedOn     string                      `json:"createdOn"`
	Text          PageText                    `json:"text"`
	Items         []ItemDisplay               `json:"items"`
	Totals        Aggregation                 `json:"totals"`
	Funding       []SemesterFunding           `json:"funding"`
	Contacts      map[NetID]directory.Contact `json:"contacts"`
}

// PageText holds the free-text blocks split into printed lines.
type PageText struct {
	Description  []string `json:"description"`
	Welcome      []string `json:"welcome,omitempty"`
	Constitution []string `json:"constitution"`
}

type ItemDisplay struct {
	MysqlID   int    `json:"mysqlId"`
	Heading   string `json:"heading"`
	Created   string `json:"created"`
	Requested string `json:"requested"`
	Granted   string `json:"granted"`
}

type IndexEntry struct {
	MysqlID     int    `json:"mysqlId"`
	Name        string `json:"name"`
	ClubType    string `json:"clubType"`
	Path        string `json:"path"`
	Featured    bool   `json:"featured"`
	Placeholder bool   `json:"placeholder"`
	Since       int    `json:"since,omitempty"`
}

type BuildResult struct {
	RunID  string
	Counts internal.RunCounts
}

type BuildService struct {
	db        *storage.DB
	cfg       config.Config
	log       zerolog.Logger
	dir       *directory.Directory
	formatter *util.Formatter
}

func NewBuildService(db *storage.DB, cfg config.Config, log zerolog.Logger, dir *directory.Directory) (*BuildService, error) {
	formatter, err := util.NewFormatter(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	if dir == nil {
		dir = directory.New(cfg.EmailDomain)
	}
	return &BuildService{db: db, cfg: cfg, log: log, dir: dir, formatter: formatter}, nil
}

func ClubPath(mysqlID int) string {
	return "/clubs/" + strconv.Itoa(mysqlID)
}

// Build writes every club page document and the index, then records the run.
func (s *BuildService) Build() (BuildResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.log.With().Str("run", runID).Logger()

	clubs, err := s.db.ListClubs()
	if err != nil {
		return BuildResult{}, fmt.Errorf("list clubs: %w", err)
	}
	items, err := s.db.ListBudgetItems()
	if err != nil {
		return BuildResult{}, fmt.Errorf("list budget items: %w", err)
	}

	byClub := groupByClub(items)

	counts := internal.RunCounts{Clubs: len(clubs), BudgetItems: len(items)}
	index := make([]IndexEntry, 0, len(clubs))
	for _, raw := range clubs {
		doc := s.document(NormalizeClub(raw, byClub[raw.MysqlID]))
		delete(byClub, raw.MysqlID)

		if err := s.writeDocument(doc); err != nil {
			return BuildResult{}, err
		}
		counts.Written++
		index = append(index, IndexEntry{
			MysqlID:     doc.MysqlID,
			Name:        doc.Name,
			ClubType:    doc.ClubType.Name,
			Path:        ClubPath(doc.MysqlID),
			Featured:    s.cfg.IsFeatured(doc.MysqlID),
			Placeholder: doc.Placeholder,
			Since:       s.formatter.Year(doc.CreatedAt),
		})
		log.Debug().Int("club", doc.MysqlID).Int("items", len(doc.BudgetItems)).Msg("club written")
	}

	for clubID, orphans := range byClub {
		counts.Orphaned += len(orphans)
		log.Warn().Int("club_id", clubID).Int("items", len(orphans)).Msg("budget items reference unknown club")
	}

	sortIndex(index)
	if err := writeJSON(filepath.Join(s.cfg.OutputDir, "index.json"), index); err != nil {
		return BuildResult{}, err
	}

	if err := s.db.InsertRun(runID, start, time.Now(), counts); err != nil {
		return BuildResult{}, fmt.Errorf("record run: %w", err)
	}
	if err := s.db.SetMetadata(lastRunKey, runID); err != nil {
		return BuildResult{}, err
	}

	log.Info().
		Int("clubs", counts.Clubs).
		Int("items", counts.BudgetItems).
		Int("orphaned", counts.Orphaned).
		Dur("took", time.Since(start)).
		Msg("build finished")

	return BuildResult{RunID: runID, Counts: counts}, nil
}

// BuildOne normalizes and writes a single club page. The index is not
// touched.
func (s *BuildService) BuildOne(mysqlID int) (ClubDocument, error) {
	raw, err := s.db.GetClub(mysqlID)
	if err != nil {
		return ClubDocument{}, err
	}
	items, err := s.db.ListBudgetItemsByClub(mysqlID)
	if err != nil {
		return ClubDocument{}, err
	}

	doc := s.document(NormalizeClub(raw, items))
	if err := s.writeDocument(doc); err != nil {
		return ClubDocument{}, err
	}
	s.log.Info().Int("club", mysqlID).Int("items", len(items)).Msg("club written")
	return doc, nil
}

// LoadClubs normalizes every club in the snapshot, in mysqlId order.
func LoadClubs(db *storage.DB) ([]Club, error) {
	clubs, err := db.ListClubs()
	if err != nil {
		return nil, err
	}
	items, err := db.ListBudgetItems()
	if err != nil {
		return nil, err
	}

	byClub := groupByClub(items)
	out := make([]Club, 0, len(clubs))
	for _, raw := range clubs {
		out = append(out, NormalizeClub(raw, byClub[raw.MysqlID]))
	}
	return out, nil
}

func groupByClub(items []internal.RawBudgetItem) map[int][]internal.RawBudgetItem {
	byClub := map[int][]internal.RawBudgetItem{}
	for _, item := range items {
		byClub[item.ClubID] = append(byClub[item.ClubID], item)
	}
	return byClub
}

func (s *BuildService) document(club Club) ClubDocument {
	contacts := map[NetID]directory.Contact{}
	for _, id := range club.NetIDs() {
		contact, _ := s.dir.Lookup(string(id))
		contacts[id] = contact
	}
	items := make([]ItemDisplay, 0, len(club.BudgetItems))
	for _, item := range club.BudgetItems {
		items = append(items, ItemDisplay{
			MysqlID:   item.MysqlID,
			Heading:   item.DisplayName(),
			Created:   s.formatter.Time(item.CreatedAt),
			Requested: util.FormatCurrency(item.Aggregation.TotalRequested),
			Granted:   util.FormatCurrency(item.Aggregation.TotalGranted),
		})
	}

	text := PageText{
		Description:  util.Paragraphs(club.Description),
		Constitution: util.Paragraphs(club.Constitution),
	}
	if club.Welcome != nil {
		text.Welcome = util.Paragraphs(club.Welcome.Text)
	}

	return ClubDocument{
		Club:          club,
		AlternateName: club.AlternateName(),
		Placeholder:   club.IsPlaceholder(),
		CreatedOn:     s.formatter.DateShort(club.CreatedAt),
		Text:          text,
		Items:         items,
		Totals:        club.Totals(),
		Funding:       FundingBySemester(club),
		Contacts:      contacts,
	}
}

func (s *BuildService) writeDocument(doc ClubDocument) error {
	path := filepath.Join(s.cfg.OutputDir, "clubs", strconv.Itoa(doc.MysqlID)+".json")
	if err := writeJSON(path, doc); err != nil {
		return fmt.Errorf("write club %d: %w", doc.MysqlID, err)
	}
	return nil
}

func sortIndex(index []IndexEntry) {
	coll := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(index, func(a, b IndexEntry) int {
		if c := coll.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return a.MysqlID - b.MysqlID
	})
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
