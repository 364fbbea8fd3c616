package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects and configures the database backend.
type Options struct {
	Driver string // postgres | sqlite

	DSN      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string

	SQLitePath string
	Silent     bool
}

// ConnectDB opens the configured backend. Startup cannot continue without a
// database, so failures are fatal.
func ConnectDB(opts Options) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	switch opts.Driver {
	case "sqlite":
		db, err = OpenSQLite(opts.SQLitePath, opts.Silent)
	case "postgres", "":
		db, err = openPostgres(opts)
	default:
		err = fmt.Errorf("unsupported DB_DRIVER %q", opts.Driver)
	}
	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}

	log.Printf("Database connection established (%s)", driverName(opts.Driver))
	return db
}

func driverName(driver string) string {
	if driver == "" {
		return "postgres"
	}
	return driver
}

func newGormLogger(silent bool) logger.Interface {
	level := logger.Warn
	if silent {
		level = logger.Silent
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}
