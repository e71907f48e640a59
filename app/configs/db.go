package configs

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const retryDelay = 5 * time.Second

// Dialector picks the gorm driver for the configured DB_DRIVER.
func Dialector(env ENV) (gorm.Dialector, error) {
	switch env.DBDriver {
	case "mysql", "":
		cfg := mysqldriver.NewConfig()
		cfg.User = env.DBUser
		cfg.Passwd = env.DBPassword
		cfg.Net = "tcp"
		cfg.Addr = env.DBHost + ":" + env.DBPort
		cfg.DBName = env.DBName
		cfg.ParseTime = true
		cfg.Loc = time.Local
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.Open(cfg.FormatDSN()), nil
	case "sqlite":
		return sqlite.Open(SQLiteDSN(env.DBPath)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
	}
}

// SQLiteDSN enables foreign keys so ON DELETE CASCADE holds on sqlite as well.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func OpenConnection(env ENV) (*gorm.DB, error) {
	dialector, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if !env.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	maxRetries := env.DBRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		zap.S().Infof("connecting to %s database (attempt %d/%d)", env.DBDriver, i+1, maxRetries)
		db, err := gorm.Open(dialector, gormCfg)
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					zap.S().Info("database connection established")
					return db, nil
				}
			}
			lastErr = pingErr
			zap.S().Warnf("failed to ping database: %v, retrying in %v", pingErr, retryDelay)
		} else {
			lastErr = err
			zap.S().Warnf("failed to open gorm connection: %v, retrying in %v", err, retryDelay)
		}

		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to the database after %d attempts: %w", maxRetries, lastErr)
}
