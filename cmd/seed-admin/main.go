// Command seed-admin provisions an admin account directly in the
// database. The account still has to appear in ADMIN_ALLOWLIST before an
// admin session can be issued for it.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/repository"
	"github.com/coursedeck/coursedeck-api/pkg/config"
	"github.com/coursedeck/coursedeck-api/pkg/database"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("missing -password")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hashStr := string(hash)
	account := &models.Account{
		Username:     *username,
		PasswordHash: &hashStr,
		Role:         models.RoleAdmin,
		DarkMode:     false,
	}

	repo := repository.NewAccountRepository(db)
	if err := repo.Create(ctx, account); err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	log.Printf("admin created successfully: %s", *username)
}
