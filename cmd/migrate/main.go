// Command main runs schema migration plus the one-off legacy posts import.
package main

import (
	"flag"
	"log"

	"parish/internal/config"
	"parish/internal/database"
	"parish/internal/models"
)

func main() {
	authorID := flag.Uint("author", 0, "User ID to own imported legacy posts (defaults to the first admin)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}
	log.Println("Schema migration complete")

	owner := *authorID
	if owner == 0 {
		var admin models.User
		if err := db.Where("role = ?", models.RoleAdmin).First(&admin).Error; err != nil {
			log.Fatalf("No admin user found to own legacy posts; pass -author or seed first: %v", err)
		}
		owner = admin.ID
	}

	migrated, err := database.MigrateLegacyPosts(db, owner)
	if err != nil {
		log.Fatalf("Legacy posts migration failed: %v", err)
	}
	if migrated == 0 {
		log.Println("No legacy posts to migrate")
	} else {
		log.Printf("Migrated %d legacy posts into contents", migrated)
	}
}
