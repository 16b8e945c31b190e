package db

import (
	"fmt"
	"io"
	"log"
	"strconv"
)

// RunMigrateCommand handles the 'migrate' subcommand dispatching
func RunMigrateCommand(args []string, dbPath string, out io.Writer) error {
	if len(args) < 1 {
		PrintMigrateHelp(out)
		return fmt.Errorf("missing migrate action")
	}

	migrations, err := getMigrationsFS()
	if err != nil {
		return fmt.Errorf("failed to get migrations filesystem: %w", err)
	}

	// Open database connection without running schema initialization
	// (migrations will manage the schema)
	database, err := OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	switch action := args[0]; action {
	case "up":
		log.Printf("Running migrations...")
		if err := database.MigrateUp(migrations); err != nil {
			return err
		}
	case "down":
		log.Printf("Rolling back one migration...")
		if err := database.MigrateDown(migrations); err != nil {
			return err
		}
	case "version":
		if len(args) < 2 {
			return fmt.Errorf("usage: planner migrate version <version_number>")
		}
		target, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version number: %s", args[1])
		}
		log.Printf("Migrating to version %d...", target)
		if err := database.MigrateTo(migrations, uint(target)); err != nil {
			return err
		}
	case "status":
	case "help":
		PrintMigrateHelp(out)
		return nil
	default:
		fmt.Fprintf(out, "Unknown migrate action: %s\n\n", action)
		PrintMigrateHelp(out)
		return fmt.Errorf("unknown migrate action %q", action)
	}

	return printMigrateStatus(database, out)
}

func printMigrateStatus(database *DB, out io.Writer) error {
	migrations, err := getMigrationsFS()
	if err != nil {
		return err
	}
	version, dirty, err := database.MigrateVersion(migrations)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	latest, err := LatestMigrationVersion(migrations)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "=== Migration Status ===")
	fmt.Fprintf(out, "Current version: %d\n", version)
	fmt.Fprintf(out, "Latest version: %d\n", latest)
	fmt.Fprintf(out, "Dirty: %v\n", dirty)
	if dirty {
		fmt.Fprintln(out, "\nWARNING: Database is in a dirty state!")
		fmt.Fprintln(out, "A migration failed mid-execution. Inspect the database before retrying.")
	}
	return nil
}

// PrintMigrateHelp displays help for the migrate command
func PrintMigrateHelp(out io.Writer) {
	fmt.Fprint(out, `Usage: planner migrate <action> [args]

Actions:
  up                Apply all pending migrations
  down              Roll back the most recent migration
  status            Show the current migration version
  version <n>       Migrate up or down to version n
  help              Show this help
`)
}
