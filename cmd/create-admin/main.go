// Command create-admin provisions an admin user for the scheduler API.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/medoffice/shift-scheduler-backend/internal/config"
	"github.com/medoffice/shift-scheduler-backend/internal/database"
	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

func main() {
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: create-admin -username <name> -password <password>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), cfg.Security.BcryptCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	user := &models.AdminUser{
		Username:     *username,
		PasswordHash: string(hash),
	}

	repo := database.NewAdminUserRepository(db)
	if err := repo.Create(user); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created admin user %s (%s)\n", user.Username, user.ID)
}
