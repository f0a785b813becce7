package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/chrissnell/remotewater/internal/database"
	"github.com/chrissnell/remotewater/internal/log"
	"github.com/chrissnell/remotewater/pkg/config"
	"github.com/chrissnell/remotewater/pkg/migrate"
)

func main() {
	var (
		envFile       = flag.String("env-file", ".env", "Optional dotenv file providing "+config.EnvDatabaseURL)
		dbDSN         = flag.String("dsn", "", "PostgreSQL connection string (default: $"+config.EnvDatabaseURL+")")
		command       = flag.String("command", "up", "Migration command: up, down, to, version, status")
		targetVersion = flag.String("target", "", "Target version for down/to commands")
		debug         = flag.Bool("debug", false, "Turn on debugging output")
		helpFlag      = flag.Bool("help", false, "Show help")
	)

	flag.Parse()

	if *helpFlag {
		showHelp()
		return
	}

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := config.LoadEnvFiles(*envFile); err != nil {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}

	dsn := *dbDSN
	if dsn == "" {
		dsn = os.Getenv(config.EnvDatabaseURL)
	}
	if dsn == "" {
		fmt.Fprintf(os.Stderr, "Error: -dsn flag or %s is required\n", config.EnvDatabaseURL)
		showHelp()
		os.Exit(1)
	}

	client, err := database.Connect(dsn, log.GetSugaredLogger())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	migrator, err := client.Migrator()
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}

	// Execute command
	switch *command {
	case "up":
		err = migrator.MigrateUp(ctx)
	case "down", "to":
		if *targetVersion == "" {
			fmt.Fprintf(os.Stderr, "Error: -target flag is required for %s command\n", *command)
			os.Exit(1)
		}
		target, perr := strconv.Atoi(*targetVersion)
		if perr != nil || target < 0 {
			log.Fatalf("Invalid target version: %q", *targetVersion)
		}
		if *command == "down" {
			current, verr := migrator.CurrentVersion(ctx)
			if verr != nil {
				log.Fatalf("Failed to get current version: %v", verr)
			}
			if target > current {
				log.Fatalf("Target version %d is above current version %d; use -command to", target, current)
			}
		}
		err = migrator.MigrateTo(ctx, target)
	case "version":
		version, verr := migrator.CurrentVersion(ctx)
		if verr != nil {
			log.Fatalf("Failed to get current version: %v", verr)
		}
		fmt.Printf("Current version: %d\n", version)
		return
	case "status":
		err = showStatus(ctx, migrator)
		if err == nil {
			return
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", *command)
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Migration command failed: %v", err)
	}

	fmt.Println("Migration completed successfully")
}

func showStatus(ctx context.Context, migrator *migrate.Migrator) error {
	currentVersion, err := migrator.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	pending, err := migrator.Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending migrations: %w", err)
	}

	fmt.Printf("Current version: %d\n", currentVersion)
	fmt.Printf("Pending migrations: %d\n", len(pending))

	if len(pending) > 0 {
		fmt.Println("\nPending migrations:")
		for _, migration := range pending {
			fmt.Printf("  %d: %s\n", migration.Version, migration.Name)
		}
	}

	return nil
}

func showHelp() {
	fmt.Println("Results Database Migration Tool")
	fmt.Println()
	fmt.Println("Applies the report_scores and regeneration_runs schema to the lab results database.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  migrate [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -dsn string        PostgreSQL connection string (default: $" + config.EnvDatabaseURL + ")")
	fmt.Println("  -env-file string   Optional dotenv file (default: .env)")
	fmt.Println("  -command string    Migration command (default: up)")
	fmt.Println("  -target string     Target version for down/to commands")
	fmt.Println("  -debug             Turn on debugging output")
	fmt.Println("  -help              Show this help message")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up                 Apply all pending migrations")
	fmt.Println("  down               Roll back to target version")
	fmt.Println("  to                 Migrate to specific version (up or down)")
	fmt.Println("  version            Show current migration version")
	fmt.Println("  status             Show migration status")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  migrate -dsn postgres://lab@localhost/lims -command up")
	fmt.Println("  migrate -command down -target 1")
	fmt.Println("  migrate -command status")
}
