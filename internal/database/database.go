package database

import (
	"embed"
	"fmt"
	"log"
	"os"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"devconnect-api/internal/config"
	"devconnect-api/internal/store"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Database is the PostgreSQL implementation of store.Store.
type Database struct {
	DB *gorm.DB
}

var _ store.Store = (*Database)(nil)

func NewDatabase(cfg *config.Config) (*Database, error) {
	logLevel := logger.Warn
	if cfg.LogSQL {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	maxRetries := cfg.DBMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	retryDelay := 2 * time.Second

	var db *gorm.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err != nil {
			log.Printf("Failed to open database (attempt %d/%d): %v", i+1, maxRetries, err)
			time.Sleep(retryDelay)
			continue
		}

		sqlDB, dbErr := db.DB()
		if dbErr == nil {
			dbErr = sqlDB.Ping()
		}
		if dbErr != nil {
			err = dbErr
			log.Printf("Failed to ping database (attempt %d/%d): %v", i+1, maxRetries, err)
			if sqlDB != nil {
				sqlDB.Close()
			}
			time.Sleep(retryDelay)
			continue
		}
		break
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	log.Println("Successfully connected to database")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	d := &Database{DB: db}
	if err := d.runMigrations(); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

func (d *Database) runMigrations() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}

	n, err := migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	if err != nil {
		return err
	}

	if n > 0 {
		log.Printf("Applied %d database migrations", n)
	} else {
		log.Println("No database migrations to apply")
	}

	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
