package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-cms-backend/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Dialector picks the driver from DB_TYPE. "supa" and "postgres" share the Postgres driver;
// "sqlite" opens SQLITE_PATH.
func Dialector(c map[string]string) (gorm.Dialector, error) {
	switch dbType := strings.ToLower(config.GetString(c, "DB_TYPE", "sqlite")); dbType {
	case "supa":
		return postgresDialector(postgresDSN(c, "SUPABASE_DB_HOST", "require")), nil
	case "postgres":
		return postgresDialector(postgresDSN(c, "DB_HOST", config.GetString(c, "DB_SSLMODE", "disable"))), nil
	case "sqlite":
		return sqlite.Open(config.GetString(c, "SQLITE_PATH", "portfolio.db")), nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// postgresDSN builds a key/value DSN. hostKey selects the variable family: SUPABASE_DB_HOST
// reads SUPABASE_DB_USER and friends, DB_HOST reads DB_USER and friends.
func postgresDSN(c map[string]string, hostKey, sslMode string) string {
	prefix := strings.TrimSuffix(hostKey, "HOST")
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(c, hostKey, "localhost"),
		config.GetString(c, prefix+"USER", ""),
		config.GetString(c, prefix+"PASSWORD", ""),
		config.GetString(c, prefix+"NAME", ""),
		config.GetString(c, prefix+"PORT", "5432"),
		sslMode,
	)
}

func postgresDialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}

// Open connects, registers read replicas from DB_REPLICA_DSNS and verifies the connection
func Open(c map[string]string) (*gorm.DB, error) {
	dialector, err := Dialector(c)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             config.GetDuration(c, "DB_SLOW_QUERY_MS", time.Millisecond, 10*time.Second),
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    false,
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if replicas := config.GetList(c, "DB_REPLICA_DSNS", nil); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, dsn := range replicas {
			dialectors = append(dialectors, postgresDialector(dsn))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("registering read replicas: %w", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 10))
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("testing database connection: %w", err)
	}
	return db, nil
}
