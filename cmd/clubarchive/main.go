package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"

	"clubarchive/internal/archive"
	"clubarchive/internal/config"
	"clubarchive/internal/directory"
	"clubarchive/internal/logging"
	"clubarchive/internal/pipeline"
	"clubarchive/internal/site"
	"clubarchive/internal/storage"
	"clubarchive/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := logging.New(cfg.AppEnv)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "import:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		in := fs.String("in", "", "legacy table dump (.xlsx)")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--in", *in))
		f, err := os.Open(*in)
		must(err)
		defer f.Close()
		res, err := pipeline.ImportWorkbook(db, f)
		must(err)
		log.Info().Str("file", *in).Msg("workbook imported")
		fmt.Printf("imported clubs=%d budgetItems=%d userMappings=%d\n", res.Clubs, res.BudgetItems, res.UserMappings)
	case "build":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		club := fs.Int("club", -1, "build a single club by mysqlId")
		_ = fs.Parse(os.Args[2:])
		dir, err := loadDirectory(cfg, db)
		must(err)
		svc, err := pipeline.NewBuildService(db, cfg, log, dir)
		must(err)
		if *club >= 0 {
			doc, err := svc.BuildOne(*club)
			must(err)
			fmt.Printf("built club %d (%s) items=%d\n", doc.MysqlID, doc.Name, len(doc.BudgetItems))
			return
		}
		res, err := svc.Build()
		must(err)
		fmt.Printf("build done run=%s clubs=%d items=%d orphaned=%d output=%s\n",
			res.RunID, res.Counts.Clubs, res.Counts.BudgetItems, res.Counts.Orphaned, cfg.OutputDir)
	case "clubs:list":
		clubs, err := pipeline.LoadClubs(db)
		must(err)
		printClubs(cfg, clubs)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--out", *out))
		formatter, err := util.NewFormatter(cfg.Timezone)
		must(err)
		clubs, err := pipeline.LoadClubs(db)
		must(err)
		must(pipeline.ExportWorkbook(clubs, formatter, *out))
		fmt.Printf("exported %d clubs to %s\n", len(clubs), *out)
	case "chart":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		club := fs.Int("club", -1, "club mysqlId")
		out := fs.String("out", "", "output png path")
		_ = fs.Parse(os.Args[2:])
		if *club < 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--club and --out are required"))
		}
		raw, err := db.GetClub(*club)
		must(err)
		items, err := db.ListBudgetItemsByClub(*club)
		must(err)
		normalized := pipeline.NormalizeClub(raw, items)
		png, err := pipeline.RenderFundingChart(normalized.Name, pipeline.FundingBySemester(normalized))
		if errors.Is(err, pipeline.ErrNoFunding) {
			fmt.Printf("club %d has no granted funding\n", *club)
			return
		}
		must(err)
		must(os.MkdirAll(filepath.Dir(*out), 0o755))
		must(os.WriteFile(*out, png, 0o644))
		fmt.Printf("chart written to %s\n", *out)
	case "site:check":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		base := fs.String("base", cfg.SiteBaseURL, "archive base url")
		_ = fs.Parse(os.Args[2:])
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ok := checkSite(ctx, cfg, db, *base, log)
		if !ok {
			os.Exit(2)
		}
	case "archive:verify":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		dir := fs.String("dir", filepath.Join(cfg.OutputDir, "pdf"), "directory of club printouts")
		_ = fs.Parse(os.Args[2:])
		if !verifyArchive(cfg, db, *dir) {
			os.Exit(2)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func loadDirectory(cfg config.Config, db *storage.DB) (*directory.Directory, error) {
	dir := directory.New(cfg.EmailDomain)
	users, err := db.ListUserMappings()
	if err != nil {
		return nil, err
	}
	dir.AddUserMappings(users)
	if err := dir.LoadFile(cfg.DirectoryPath); err != nil {
		return nil, err
	}
	return dir, nil
}

func printClubs(cfg config.Config, clubs []pipeline.Club) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Name", "Type", "Active", "Items", "Granted", "Featured"})
	for _, c := range clubs {
		name := c.Name
		if c.IsPlaceholder() {
			name += " (placeholder)"
		}
		t.AppendRow(table.Row{
			c.MysqlID,
			name,
			c.ClubType.Name,
			c.Status.IsActive,
			len(c.BudgetItems),
			util.FormatCurrency(c.Totals().TotalGranted),
			cfg.IsFeatured(c.MysqlID),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d clubs", len(clubs))})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func checkSite(ctx context.Context, cfg config.Config, db *storage.DB, base string, log zerolog.Logger) bool {
	checker, err := site.NewChecker(cfg, base, log)
	must(err)
	clubs, err := pipeline.LoadClubs(db)
	must(err)

	expected := make([]site.Expected, 0, len(clubs))
	for _, c := range clubs {
		expected = append(expected, site.Expected{Path: pipeline.ClubPath(c.MysqlID), Name: c.Name})
	}

	pages, err := checker.Crawl(ctx)
	must(err)
	report := site.Compare(pages, expected)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Path", "Problem", "Expected", "Found"})
	for _, p := range report.Missing {
		t.AppendRow(table.Row{p, "missing", "", ""})
	}
	for _, p := range report.Broken {
		t.AppendRow(table.Row{p.Path, "broken", "200", p.Status})
	}
	for _, m := range report.Mismatched {
		t.AppendRow(table.Row{m.Path, "name", m.Want, m.Got})
	}
	t.SetStyle(table.StyleRounded)
	if !report.OK() {
		t.Render()
	}
	fmt.Printf("checked=%d missing=%d broken=%d mismatched=%d\n",
		report.Checked, len(report.Missing), len(report.Broken), len(report.Mismatched))
	return report.OK()
}

func verifyArchive(cfg config.Config, db *storage.DB, dir string) bool {
	clubs, err := pipeline.LoadClubs(db)
	must(err)

	entries := make([]archive.Entry, 0, len(clubs))
	for _, c := range clubs {
		entries = append(entries, archive.Entry{MysqlID: c.MysqlID, Name: c.Name})
	}
	results, err := archive.Verify(dir, cfg.ArchiveTitle, entries)
	must(err)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "File", "Pages", "Problem"})
	failed := 0
	for _, r := range results {
		if r.OK() {
			continue
		}
		failed++
		problem := r.Error
		switch {
		case !r.Exists:
			problem = "missing"
		case problem == "" && r.Pages == 0:
			problem = "no pages"
		case problem == "":
			problem = "name not on first page"
		}
		t.AppendRow(table.Row{r.MysqlID, r.File, r.Pages, problem})
	}
	t.SetStyle(table.StyleRounded)
	if failed > 0 {
		t.Render()
	}
	fmt.Printf("verified=%d failed=%d dir=%s\n", len(results), failed, dir)
	return failed == 0
}

func usage() {
	fmt.Println("usage: clubarchive <command>")
	fmt.Println("commands:")
	fmt.Println("  import:xlsx --in=./dump.xlsx")
	fmt.Println("  build [--club=181]")
	fmt.Println("  clubs:list")
	fmt.Println("  export:xlsx --out=./out/archive.xlsx")
	fmt.Println("  chart --club=181 --out=./out/charts/181.png")
	fmt.Println("  site:check [--base=http://localhost:9000]")
	fmt.Println("  archive:verify [--dir=./out/pdf]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
