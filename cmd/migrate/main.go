package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/WatchHubTV/WatchHub/internal/pkg/env"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	env.SetupEnvFile()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	dbURL := fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		env.GetEnv("DB_USER", "watchhub"),
		env.GetEnv("DB_PASSWORD", "watchhub"),
		env.GetEnv("DB_HOST", "db"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", "watchhub_db"),
	)

	log.Printf("Connecting to database: %s@%s:%s/%s",
		env.GetEnv("DB_USER", "watchhub"),
		env.GetEnv("DB_HOST", "db"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", "watchhub_db"),
	)

	m, err := migrate.New(
		"file://migrations",
		dbURL,
	)
	if err != nil {
		log.Fatalf("Error initializing migrations: %v", err)
	}

	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Printf("Error closing migration resources: %v, %v", sourceErr, dbErr)
		}
	}()

	switch command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("Error running migrations: %v", err)
		} else if err == migrate.ErrNoChange {
			log.Println("No changes: database is already up to date")
		} else {
			log.Println("Migrations applied successfully")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			log.Fatalf("Error rolling back last migration: %v", err)
		} else {
			log.Println("Last migration rolled back successfully")
		}

	case "goto":
		if len(os.Args) < 3 {
			log.Fatalf("Please provide a version number")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("Invalid version number: %v", err)
		}

		if err := m.Migrate(uint(version)); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("Error migrating to version %d: %v", version, err)
		} else if err == migrate.ErrNoChange {
			log.Printf("No changes: database is already at version %d", version)
		} else {
			log.Printf("Migration to version %d successful", version)
		}

	case "status":
		version, dirty, err := m.Version()
		if err != nil {
			if err == migrate.ErrNilVersion {
				log.Println("No migrations have been applied yet")
			} else {
				log.Fatalf("Error reading migration version: %v", err)
			}
		} else {
			dirtyStatus := ""
			if dirty {
				dirtyStatus = " (dirty)"
			}
			log.Printf("Current migration version: %d%s", version, dirtyStatus)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go [command]")
	fmt.Println("Available commands:")
	fmt.Println("  up     - Apply all pending migrations")
	fmt.Println("  down   - Roll back the last migration")
	fmt.Println("  goto N - Migrate to version N")
	fmt.Println("  status - Show the current migration version")
}
