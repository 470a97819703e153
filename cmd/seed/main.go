package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"frontdesk/internal/config"
	"frontdesk/internal/database"
	"frontdesk/internal/services"
)

// seedEntries are the starter knowledge base entries inserted into an empty
// database.
var seedEntries = []struct {
	pattern string
	answer  string
}{
	{"business hours", "We are open Monday-Friday 9am-5pm EST"},
	{"contact", "You can reach us at support@example.com or call 1-800-555-0100"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	cfg := config.Load()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	ctx := context.Background()
	store := services.NewEscalationStore(db)

	count, err := store.CountKnowledgeBase(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to count knowledge base: %v", err)
	}
	if count > 0 {
		log.Println("ℹ️  Knowledge base already has data, skipping seed")
		return
	}

	log.Println("🌱 Seeding knowledge base with sample data...")
	now := time.Now().UTC()
	for _, entry := range seedEntries {
		if _, err := store.InsertKnowledgeBaseEntry(ctx, entry.pattern, entry.answer, nil, now); err != nil {
			log.Fatalf("❌ Seed failed: %v", err)
		}
	}
	log.Println("✅ Knowledge base seeded")
}
