package database

import (
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the database named by url. A "mysql://" prefix or a
// go-sql-driver DSN ("user:pass@tcp(host)/db") selects MySQL; anything
// else is treated as a SQLite file path.
func Open(url string) (*gorm.DB, error) {
	if dsn, ok := strings.CutPrefix(url, "mysql://"); ok {
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}
	if strings.Contains(url, "@tcp(") {
		return gorm.Open(mysql.Open(url), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(url), &gorm.Config{})
}
