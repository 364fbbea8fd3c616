package main

import (
	"flag"

	"go-farm-inventory/internal/config"
	"go-farm-inventory/internal/repository"
	"go-farm-inventory/pkg/database"
	applog "go-farm-inventory/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log := applog.Get()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, relying on system env")
	}
	cfg := config.Load()

	email := flag.String("email", cfg.AdminEmail, "account to reset")
	password := flag.String("password", cfg.AdminPassword, "new password")
	flag.Parse()

	// 2. Setup Database
	db := database.ConnectDB(database.Options{
		Driver:     cfg.DBDriver,
		DSN:        cfg.DatabaseURL,
		Host:       cfg.DBHost,
		User:       cfg.DBUser,
		Password:   cfg.DBPassword,
		Name:       cfg.DBName,
		Port:       cfg.DBPort,
		SQLitePath: cfg.SQLitePath,
		Silent:     true,
	})
	users := repository.NewUserRepo(db)

	// 3. Find the account
	user, err := users.FindByEmail(*email)
	if err != nil {
		log.WithError(err).Fatalf("user %s not found", *email)
	}

	// 4. Hash new password
	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Fatal("failed to hash password")
	}

	// 5. Update and drop existing sessions
	if err := users.UpdatePassword(user.ID, string(hashed)); err != nil {
		log.WithError(err).Fatal("failed to update password")
	}
	if err := users.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		log.WithError(err).Fatal("failed to revoke sessions")
	}

	log.WithField("email", *email).Info("password reset")
}
