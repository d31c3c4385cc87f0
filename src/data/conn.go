package data

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Connect opens a gorm DB for the configured driver. For sqlite the dsn is a file path.
func Connect(driver, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("data: empty dsn for driver %q", driver)
	}

	cfg := &gorm.Config{Logger: newGormLogger()}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMySQL:
		return gorm.Open(mysql.Open(mysqlDSN(dsn)), cfg)
	case DriverSQLite:
		return gorm.Open(sqlite.Open(sqliteDSN(dsn)), cfg)
	default:
		return nil, fmt.Errorf("data: unsupported driver %q", driver)
	}
}

// MustConnect is Connect for process start-up paths.
func MustConnect(driver, dsn string) *gorm.DB {
	db, err := Connect(driver, dsn)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	return db
}

func newGormLogger() logger.Interface {
	return logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags),
		logger.Config{SlowThreshold: time.Second, LogLevel: logger.Warn, IgnoreRecordNotFoundError: true, Colorful: false},
	)
}

func mysqlDSN(dsn string) string {
	dsn = ensureParam(dsn, "parseTime", "true")
	if !strings.Contains(dsn, "charset=") {
		dsn = ensureParam(dsn, "charset", "utf8mb4")
		dsn = ensureParam(dsn, "collation", "utf8mb4_unicode_ci")
	}
	return dsn
}

// sqliteDSN enables WAL and a busy timeout so the bot and congressctl can share a file.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func ensureParam(dsn, key, val string) string {
	if strings.Contains(dsn, key+"=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + key + "=" + val
}
