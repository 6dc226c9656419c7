// Command main runs the database seeder for the Parish CMS.
package main

import (
	"log"

	"parish/internal/config"
	"parish/internal/database"
	"parish/internal/seed"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, cfg); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete: admin account and default categories are in place.")
}
