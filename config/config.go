package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// driverName records the backend selected at startup so the health
// endpoint can report it.
var driverName = "sqlite"

// InitDB opens the database selected by DB_DRIVER (mysql or sqlite).
// SQLite is the development default so the app runs without external services.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}

	switch driver {
	case "mysql":
		driverName = "mysql"
		return gorm.Open(mysql.Open(MySQLDSN()), &gorm.Config{})
	case "sqlite":
		driverName = "sqlite"
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "facilities.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// MySQLDSN builds the connection string from the environment.
func MySQLDSN() string {
	user := envOr("DB_USER", "root")
	pass := os.Getenv("DB_PASSWORD")
	host := envOr("DB_HOST", "127.0.0.1")
	port := envOr("DB_PORT", "3306")
	name := envOr("DB_NAME", "facilities")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)
}

// DriverName reports which persistence backend is active.
func DriverName() string {
	return driverName
}

// MaskedDSN hides credentials for informational output.
func MaskedDSN() string {
	if driverName == "sqlite" {
		return "sqlite://" + envOr("SQLITE_PATH", "facilities.db")
	}
	host := envOr("DB_HOST", "127.0.0.1")
	port := envOr("DB_PORT", "3306")
	name := envOr("DB_NAME", "facilities")
	return fmt.Sprintf("mysql://***:***@%s:%s/%s", host, port, name)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
