package main

import (
	"log"
	"os"

	"ai-briefbuilder-be/internal/model"
	"ai-briefbuilder-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.Open(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate for products and briefs...")

	if err := db.AutoMigrate(&model.Product{}, &model.Brief{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// Postgres only: list queries filter on author and status and sort by recency.
	if db.Dialector.Name() == "postgres" {
		postMigrationSQL := []string{
			`CREATE INDEX IF NOT EXISTS idx_briefs_author_status_updated ON briefs (author_id, status, updated_at DESC);`,
		}
		for _, sql := range postMigrationSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
			}
		}
	}

	log.Println("Success: Database migration completed.")
}
