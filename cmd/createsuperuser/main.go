package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/foodonline/backend/config"
	"github.com/foodonline/backend/internal/database"
	"github.com/foodonline/backend/internal/service"
)

func main() {
	var in service.NewUser
	flag.StringVar(&in.FirstName, "first-name", "", "First name")
	flag.StringVar(&in.LastName, "last-name", "", "Last name")
	flag.StringVar(&in.Username, "username", "", "Username (required)")
	flag.StringVar(&in.Email, "email", "", "Email address (required)")
	flag.StringVar(&in.Password, "password", "", "Password")
	flag.Parse()

	if err := run(context.Background(), in); err != nil {
		log.Printf("createsuperuser: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in service.NewUser) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	user, err := service.NewUserService(db).CreateSuperuser(ctx, in)
	if err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}

	fmt.Printf("Created superuser %s (%s) with id %d\n", user.Username, user.Email, user.ID)
	return nil
}
