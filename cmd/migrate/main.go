package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"vendora/internal/config"
	"vendora/internal/repository"
	"vendora/pkg/database"
)

const usage = `
Vendora - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up          Apply the schema
  status      Show database connection status and table counts
  reset       Drop all tables and re-apply the schema (DANGEROUS)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
  go run cmd/migrate/main.go reset
`

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch flag.Arg(0) {
	case "up":
		runUp(db)
	case "status":
		showStatus(db)
	case "reset":
		runReset(db)
	default:
		fmt.Printf("Unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}

func runUp(db *sql.DB) {
	log.Println("Applying schema...")
	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Schema applied")
}

func showStatus(db *sql.DB) {
	if err := database.Ping(db); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	tables := []string{"drafts", "queue_items", "products", "product_variants", "product_images", "addresses", "outbox_events"}
	for _, table := range tables {
		exists, err := database.TableExists(db, table)
		if err != nil {
			log.Printf("Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.TableCount(db, table)
			log.Printf("Table %-20s exists (%d rows)", table, count)
		} else {
			log.Printf("Table %-20s does not exist", table)
		}
	}
}

func runReset(db *sql.DB) {
	log.Println("WARNING: dropping all tables")
	if err := repository.DropAllTables(db); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}
	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database reset completed")
}
