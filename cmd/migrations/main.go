package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/config"
)

const migrationsDir = "internal/adapters/repository/postgres/migrations"

// Usage: migrations [config flags] <name|up|down>
//
// "up" applies every *.up.sql file in order, "down" every *.down.sql file in
// reverse order. Any other name runs the single file matching it.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	args := os.Args[1:]
	if len(args) == 0 {
		fatal(logger, "a migration name is required", nil)
	}
	migrationName := args[len(args)-1]

	cfg, err := config.Load("migrations", append([]string{"-db-type", config.DatabasePostgres}, args[:len(args)-1]...))
	if err != nil {
		fatal(logger, "invalid configuration", err)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal(logger, "failed to connect", err)
	}
	defer db.Close()

	files, err := migrationFiles(migrationsDir, migrationName)
	if err != nil {
		fatal(logger, "failed to resolve migration", err)
	}

	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(migrationsDir, file))
		if err != nil {
			fatal(logger, "failed to read migration file", err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			fatal(logger, "failed to execute migration "+file, err)
		}
		logger.Info("migration file executed", "file", file)
	}
}

func migrationFiles(basePath, migrationName string) ([]string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	switch migrationName {
	case "up", "down":
		suffix := "." + migrationName + ".sql"
		var files []string
		for _, name := range names {
			if strings.HasSuffix(name, suffix) {
				files = append(files, name)
			}
		}
		if migrationName == "down" {
			sort.Sort(sort.Reverse(sort.StringSlice(files)))
		}
		return files, nil
	}

	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return nil, fmt.Errorf("invalid migration name: %w", err)
	}
	for _, name := range names {
		if regex.MatchString(name) {
			return []string{name}, nil
		}
	}
	return nil, fmt.Errorf("migration file not found: %s", migrationName)
}

func fatal(logger *slog.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, "error", err)
	} else {
		logger.Error(msg)
	}
	os.Exit(1)
}
