package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lernquest/config"
	"lernquest/db"
	"lernquest/models"
	"lernquest/utils"
)

func main() {
	// Parse command line flags
	email := flag.String("email", "", "Admin email (required)")
	password := flag.String("password", "", "Admin password (required)")
	name := flag.String("name", "", "Admin name (required)")
	role := flag.String("role", utils.RoleAdmin, "Admin role: 'admin' or 'moderator'")
	configPath := flag.String("config", "config/config.prod.yml", "Path to config file")
	flag.Parse()

	if *email == "" || *password == "" || *name == "" {
		fmt.Println("Error: email, password, and name are required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *role != utils.RoleAdmin && *role != utils.RoleModerator {
		fmt.Println("Error: role must be 'admin' or 'moderator'")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.DisconnectMongoDB(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	admins := db.NewAdminRepository(db.MongoDatabase)
	_, err = admins.FindByEmail(ctx, *email)
	if err == nil {
		log.Fatalf("Admin with email %s already exists", *email)
	}
	if !errors.Is(err, db.ErrNotFound) {
		log.Fatalf("Database error: %v", err)
	}

	hashedPassword, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.Admin{
		Email:    *email,
		Password: hashedPassword,
		Role:     *role,
		Name:     *name,
	}
	if err := admins.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin created successfully!\n")
	fmt.Printf("   Email: %s\n", admin.Email)
	fmt.Printf("   Name: %s\n", admin.Name)
	fmt.Printf("   Role: %s\n", admin.Role)
}
