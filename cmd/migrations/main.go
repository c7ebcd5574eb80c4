package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollboard/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollboard/internal/config"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logrus.Fatal(err)
	}

	log, err := cfg.Logger()
	if err != nil {
		logrus.Fatal(err)
	}

	if len(cfg.Args) < 1 {
		log.Fatal("a migration name is required.")
	}
	migrationName := cfg.Args[0]

	db, err := postgres.Open(context.Background(), cfg.Database.ConnString())
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")
	fileName, err := migrationFilePath(basePath, migrationName)
	if err != nil {
		log.WithError(err).WithField("migration", migrationName).Fatal("cannot resolve migration")
	}

	fileContent, err := os.ReadFile(filepath.Join(basePath, fileName))
	if err != nil {
		log.WithError(err).Fatal("cannot read migration")
	}

	if _, err := db.Exec(string(fileContent)); err != nil {
		log.WithError(err).WithField("file", fileName).Fatal("failed to execute SQL file")
	}

	log.WithField("file", fileName).Info("migration file executed successfully")
}

// migrationFilePath finds the single file in basePath whose name ends with
// migrationName plus ".sql".
func migrationFilePath(basePath string, migrationName string) (string, error) {
	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", err
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, f := range files {
		if !f.IsDir() && regex.MatchString(f.Name()) {
			matches = append(matches, f.Name())
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("migration file not found")
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("migration name %q is ambiguous: %v", migrationName, matches)
	}
}
