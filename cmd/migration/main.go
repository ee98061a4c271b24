package main

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Schema migration runner. Reads DB_URL from the environment and the
// migration files from MIGRATIONS_DIR (falling back to ./migrations and
// the container path /app/migrations).
func main() {
	if len(os.Args) < 2 {
		usage()
	}

	m, sourceURL := newMigrator()
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Printf("close source: %v", srcErr)
		}
		if dbErr != nil {
			log.Printf("close database: %v", dbErr)
		}
	}()

	switch cmd, args := strings.ToLower(os.Args[1]), os.Args[2:]; cmd {
	case "up":
		report(m.Up())
		log.Printf("schema is up to date (source=%s)", sourceURL)
	case "down":
		steps := 1
		if len(args) > 0 {
			steps = mustParseInt(args[0], "down steps")
			if steps <= 0 {
				log.Fatal("down steps must be > 0")
			}
		}
		report(m.Steps(-steps))
		log.Printf("rolled back %d migration(s)", steps)
	case "version":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			fmt.Println("version: none\ndirty: false")
		case err != nil:
			log.Fatalf("read version: %v", err)
		default:
			fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
		}
	case "force":
		if len(args) == 0 {
			log.Fatal("force requires a version argument")
		}
		version := mustParseInt(args[0], "version")
		if version < 0 {
			log.Fatal("version must be >= 0")
		}
		if err := m.Force(version); err != nil {
			log.Fatalf("force version %d: %v", version, err)
		}
		log.Printf("forced version to %d", version)
	case "goto":
		if len(args) == 0 {
			log.Fatal("goto requires a target version argument")
		}
		target := mustParseInt(args[0], "target version")
		if target < 0 {
			log.Fatal("target version must be >= 0")
		}
		report(m.Migrate(uint(target)))
		log.Printf("migrated to version %d", target)
	default:
		usage()
	}
}

func newMigrator() (*migrate.Migrate, string) {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		log.Fatal("DB_URL is required")
	}
	if truthy(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT")) {
		dbURL = withDisabledPreparedBinaryResult(dbURL)
	}

	dir, err := migrationsDir()
	if err != nil {
		log.Fatal(err)
	}
	sourceURL := "file://" + filepath.ToSlash(dir)

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	return m, sourceURL
}

func migrationsDir() (string, error) {
	for _, candidate := range []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./migrations",
		"/app/migrations",
	} {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", errors.New("migration directory not found (checked MIGRATIONS_DIR, ./migrations, /app/migrations)")
}

func withDisabledPreparedBinaryResult(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}
	query := parsed.Query()
	if query.Has("disable_prepared_binary_result") {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func mustParseInt(raw, what string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Fatalf("invalid %s %q", what, raw)
	}
	return value
}

func truthy(value string) bool {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}

func report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Print("no migration changes")
		return
	}
	log.Fatal(err)
}

func usage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down [n]|version|force <v>|goto <v>>\n", name)
	os.Exit(2)
}
