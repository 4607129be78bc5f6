package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultFeaturedClubIDs are the clubs with the most complete records.
var DefaultFeaturedClubIDs = []int{51, 288, 181, 31, 69, 140, 78, 43, 66, 107, 25, 274, 143, 45}

type Config struct {
	AppEnv        string
	DBPath        string
	OutputDir     string
	DirectoryPath string
	EmailDomain   string

	SiteBaseURL      string
	SiteConcurrency  int
	SiteRateLimitRPS int
	SiteTimeoutMs    int

	ArchiveTitle    string
	Timezone        string
	FeaturedClubIDs []int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	featured, err := getEnvIntList("FEATURED_CLUB_IDS", DefaultFeaturedClubIDs)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		DBPath:        getEnv("DB_PATH", filepath.Join(cwd, "data", "archive.db")),
		OutputDir:     getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		DirectoryPath: getEnv("DIRECTORY_PATH", filepath.Join(cwd, "data", "directory.json")),
		EmailDomain:   getEnv("EMAIL_DOMAIN", "fandm.edu"),

		SiteBaseURL:      strings.TrimRight(getEnv("SITE_BASE_URL", "http://localhost:9000"), "/"),
		SiteConcurrency:  getEnvInt("SITE_CONCURRENCY", 6),
		SiteRateLimitRPS: getEnvInt("SITE_RATE_LIMIT_RPS", 10),
		SiteTimeoutMs:    getEnvInt("SITE_TIMEOUT_MS", 30000),

		ArchiveTitle:    getEnv("ARCHIVE_TITLE", "Old Budget Site Archive"),
		Timezone:        getEnv("ARCHIVE_TIMEZONE", "America/New_York"),
		FeaturedClubIDs: featured,
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required value: %s", name)
	}
	return nil
}

func (c Config) IsFeatured(mysqlID int) bool {
	for _, id := range c.FeaturedClubIDs {
		if id == mysqlID {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvIntList parses a comma separated list. Unlike the scalar helpers a
// malformed entry is an error.
func getEnvIntList(key string, fallback []int) ([]int, error) {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback, nil
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid id %q", key, p)
		}
		out = append(out, n)
	}
	return out, nil
}
