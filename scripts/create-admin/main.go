// create-admin creates or promotes an admin account.
//
// Usage: go run ./scripts/create-admin <email> <name>
//
// The password is read from the ADMIN_PASSWORD environment variable.
// Database connection: uses standard PG* environment variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mspcompass/compass-engine/pkg/apperrors"
	"github.com/mspcompass/compass-engine/pkg/auth"
	"github.com/mspcompass/compass-engine/pkg/config"
	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/repositories"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: create-admin <email> <name>")
		os.Exit(1)
	}
	email, name := os.Args[1], os.Args[2]

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	if err := run(email, name, password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(email, name, password string) error {
	var dbCfg config.DatabaseConfig
	cfg, err := config.Load("dev")
	if err == nil {
		dbCfg = cfg.Database
	} else {
		// Config requires a signing key; this tool only needs the database.
		dbCfg = config.DatabaseConfig{
			Host:     envOr("PGHOST", "localhost"),
			Port:     5432,
			User:     envOr("PGUSER", "compass"),
			Password: os.Getenv("PGPASSWORD"),
			Database: envOr("PGDATABASE", "compass_engine"),
			SSLMode:  envOr("PGSSLMODE", "disable"),
		}
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{URL: dbCfg.ConnectionString()})
	if err != nil {
		return err
	}
	defer db.Close()

	users := repositories.NewUserRepository(db)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		existing.Role = models.RoleAdmin
		existing.PasswordHash = hash
		existing.Status = models.UserStatusActive
		if err := users.Update(ctx, existing); err != nil {
			return err
		}
		fmt.Printf("Promoted %s to admin\n", email)
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	fmt.Printf("Created admin %s (%s)\n", email, user.ID)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
