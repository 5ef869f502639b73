package main

import (
	"log"
	"os"
	"time"

	"ai-briefbuilder-be/internal/model"
	"ai-briefbuilder-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
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

	color.Cyan("Seeding product catalog...")

	products := []model.Product{
		{Name: "Widget X", Category: "gadgets", Description: "Pocket-sized smart widget"},
		{Name: "FreshBox Meal Kit", Category: "food delivery", Description: "Weekly recipe boxes delivered to the door"},
		{Name: "Glide Running Shoe", Category: "sportswear", Description: "Lightweight daily trainer"},
		{Name: "Lumen Savings Account", Category: "banking", Description: "High-interest account with no fees"},
		{Name: "Nimbus Cloud Backup", Category: "software", Description: "Automatic encrypted backup for small teams"},
	}

	created, skipped := 0, 0
	for _, p := range products {
		var existing model.Product
		if err := db.Where("LOWER(name) = LOWER(?)", p.Name).First(&existing).Error; err == nil {
			color.Yellow("Product '%s' already exists, skipping...", p.Name)
			skipped++
			continue
		}

		p.Id = uuid.New()
		p.CreatedAt = time.Now()
		if err := db.Create(&p).Error; err != nil {
			color.Red("Error creating product '%s': %v", p.Name, err)
			continue
		}
		color.Green("Created product: %s (%s)", p.Name, p.Category)
		created++
	}

	color.Cyan("Product seeding completed: %d created, %d skipped", created, skipped)
}
