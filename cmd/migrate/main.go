package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nightlife-hub/nightpass/pkg/config"
	"github.com/nightlife-hub/nightpass/pkg/database"
	"github.com/nightlife-hub/nightpass/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("path", "", "migrations directory (default DATABASE_MIGRATIONS_PATH)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [-path dir] up|down|version\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: "migrate",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLog := logger.Get()

	migrationsPath := *dir
	if migrationsPath == "" {
		migrationsPath = cfg.Database.MigrationsPath
	}

	dbCfg := &database.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	switch command {
	case "up", "down":
		if err := database.Migrate(dbCfg, migrationsPath, database.MigrationDirection(command)); err != nil {
			appLog.Fatal("Migration failed", zap.String("direction", command), zap.Error(err))
		}
		appLog.Info("Migration complete", zap.String("direction", command), zap.String("path", migrationsPath))
	case "version":
		version, dirty, err := database.MigrationVersion(dbCfg, migrationsPath)
		if err != nil {
			appLog.Fatal("Failed to read migration version", zap.Error(err))
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
	default:
		flag.Usage()
		os.Exit(2)
	}
}
