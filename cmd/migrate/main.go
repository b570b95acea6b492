package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/bizdesk/erp/internal/infrastructure/config"
	"github.com/bizdesk/erp/internal/infrastructure/logger"
	"github.com/bizdesk/erp/internal/infrastructure/migration"
	"github.com/bizdesk/erp/internal/infrastructure/persistence"
	"github.com/bizdesk/erp/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	defer func() { _ = log.Sync() }()

	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate -path migrations create <name>")
		}
		if dir == "" {
			dir = "migrations"
		}
		c, err := migration.Create(dir, args[1])
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created", zap.String("up", c.UpPath), zap.String("down", c.DownPath))
		return
	case "list":
		if dir == "" {
			dir = "migrations"
		}
		entries, err := migration.List(dir)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, e := range entries {
			fmt.Println(" -", e.FileName())
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if command == "create-superadmin" {
		if len(args) < 4 {
			log.Fatal("Usage: migrate create-superadmin <email> <name> <password>")
		}
		if err := createSuperAdmin(cfg, log, args[1], args[2], args[3]); err != nil {
			log.Fatal("Failed to create super admin", zap.Error(err))
		}
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if dir != "" {
		m, err = migration.NewFromDir(db, dir, log)
	} else {
		m, err = migration.New(db, migrations.FS, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		err = m.Steps(n)
	case "version":
		version, dirty, verr := m.Version()
		if verr == nil {
			log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		err = verr
	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		err = m.Force(version)
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

// createSuperAdmin adds a super-admin user to the system tenant
func createSuperAdmin(cfg *config.Config, log *zap.Logger, email, name, password string) error {
	database, err := persistence.NewDatabase(&cfg.Database, persistence.Options{Logger: log, LogLevel: "warn"})
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := persistence.NewGormUserRepository(database.DB)
	taken, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("email %s is already registered", email)
	}

	user, err := identity.NewUser(tenancy.SystemTenantID, email, name, password, identity.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}

	log.Info("Super admin created", zap.String("user_id", user.ID.String()), zap.String("email", user.Email))
	return nil
}

func printUsage() {
	fmt.Println(`ERP database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                                     Apply all pending migrations
  down                                   Roll back all migrations
  step <n>                               Apply n migrations (negative rolls back)
  version                                Show the applied version
  force <version>                        Mark a version as applied (clears dirty state)
  create <name>                          Scaffold the next migration pair
  list                                   List migrations on disk
  create-superadmin <email> <name> <pw>  Add a super-admin user to the system tenant

Flags:
  -path string       Read migrations from a directory instead of the embedded set
  -log-level string  Log level: debug, info, warn, error (default: info)

Environment:
  ERP_DATABASE_HOST, ERP_DATABASE_PORT, ERP_DATABASE_USER,
  ERP_DATABASE_PASSWORD, ERP_DATABASE_DBNAME, ERP_DATABASE_SSLMODE`)
}
