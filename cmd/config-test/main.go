package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/chrissnell/remotewater/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	yamlConfig, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	// Load SQLite configuration
	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	// Compare configurations
	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	differences := 0

	// Engine policies decide every score, so compare the resolved settings too
	fmt.Println("\nEngine Configuration:")
	if !compareEngine(yamlConfig, sqliteConfig) {
		differences++
	}

	fmt.Println("\nStorage Configuration:")
	if !compareSection("Postgres", yamlConfig.Storage.Postgres, sqliteConfig.Storage.Postgres) {
		differences++
	}

	fmt.Println("\nRegeneration Configuration:")
	if reflect.DeepEqual(yamlConfig.Regeneration, sqliteConfig.Regeneration) {
		fmt.Println("✓ Regeneration configuration matches")
	} else {
		fmt.Printf("✗ Regeneration differs: YAML=%+v, SQLite=%+v\n", yamlConfig.Regeneration, sqliteConfig.Regeneration)
		differences++
	}

	// Compare controllers
	fmt.Printf("\nControllers - YAML: %d, SQLite: %d\n", len(yamlConfig.Controllers), len(sqliteConfig.Controllers))
	if len(yamlConfig.Controllers) == len(sqliteConfig.Controllers) {
		fmt.Println("✓ Controller count matches")
		for i, yamlController := range yamlConfig.Controllers {
			sqliteController := sqliteConfig.Controllers[i]
			if compareControllers(yamlController, sqliteController) {
				fmt.Printf("✓ Controller %s matches\n", yamlController.Type)
			} else {
				fmt.Printf("✗ Controller %s differs\n", yamlController.Type)
				differences++
			}
		}
	} else {
		fmt.Println("✗ Controller count mismatch")
		differences++
	}

	if differences > 0 {
		fmt.Printf("\nTest completed with %d difference(s)\n", differences)
		os.Exit(1)
	}
	fmt.Println("\nTest completed!")
}

func compareEngine(yaml, sqlite *config.ConfigData) bool {
	yamlSettings, yerr := yaml.EngineSettings()
	sqliteSettings, serr := sqlite.EngineSettings()
	if yerr != nil || serr != nil {
		fmt.Printf("✗ Engine settings invalid: YAML=%v, SQLite=%v\n", yerr, serr)
		return false
	}

	ok := true
	if yamlSettings.NSEDivisor != sqliteSettings.NSEDivisor {
		fmt.Printf("  NSEDivisor: YAML='%s', SQLite='%s'\n", yamlSettings.NSEDivisor, sqliteSettings.NSEDivisor)
		ok = false
	}
	if yamlSettings.BromideAbsent != sqliteSettings.BromideAbsent {
		fmt.Printf("  BromideAbsent: YAML='%s', SQLite='%s'\n", yamlSettings.BromideAbsent, sqliteSettings.BromideAbsent)
		ok = false
	}
	if yamlSettings.DetectionMatch != sqliteSettings.DetectionMatch {
		fmt.Printf("  DetectionMatch: YAML='%s', SQLite='%s'\n", yamlSettings.DetectionMatch, sqliteSettings.DetectionMatch)
		ok = false
	}
	if !reflect.DeepEqual(yaml.Engine.NameRules, sqlite.Engine.NameRules) {
		fmt.Println("  NameRules differ")
		ok = false
	}

	if ok {
		fmt.Println("✓ Engine configuration matches")
	} else {
		fmt.Println("✗ Engine configuration differs")
	}
	return ok
}

func compareSection[T any](name string, yaml, sqlite *T) bool {
	switch {
	case (yaml == nil) != (sqlite == nil):
		fmt.Printf("✗ %s configuration presence mismatch\n", name)
		return false
	case yaml == nil:
		fmt.Printf("✓ %s: both nil\n", name)
		return true
	case reflect.DeepEqual(*yaml, *sqlite):
		fmt.Printf("✓ %s configuration matches\n", name)
		return true
	default:
		fmt.Printf("✗ %s configuration differs\n", name)
		return false
	}
}

func compareControllers(yaml, sqlite config.ControllerData) bool {
	if yaml.Type != sqlite.Type {
		return false
	}

	if (yaml.RESTServer == nil) != (sqlite.RESTServer == nil) {
		return false
	}
	if yaml.RESTServer != nil && !reflect.DeepEqual(*yaml.RESTServer, *sqlite.RESTServer) {
		return false
	}

	if (yaml.GRPC == nil) != (sqlite.GRPC == nil) {
		return false
	}
	if yaml.GRPC != nil && !reflect.DeepEqual(*yaml.GRPC, *sqlite.GRPC) {
		return false
	}

	return true
}
