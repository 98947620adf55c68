// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/benevole/benevole/internal/config"
)

// Create builds the Data Source Name of the configured engine.
// For sqlite the database name is the file path.
func Create(dbCfg *config.Config) string {
	switch dbCfg.DB.GormEngine {
	case config.EnginePostgres:
		return Postgres(dbCfg.DB)
	case config.EngineSQLite:
		return dbCfg.DB.Name
	default:
		return MySQL(dbCfg.DB)
	}
}

// MySQL builds a go-sql-driver/mysql DSN, e.g. user:pw@tcp(host:3306)/name?charset=utf8mb4.
func MySQL(db config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres builds a pgx keyword/value DSN. Extras are appended as given,
// e.g. "sslmode=disable TimeZone=UTC".
func Postgres(db config.DB) string {
	parts := []string{
		"host=" + db.Host,
		fmt.Sprintf("port=%d", db.Port),
		"user=" + db.User,
		"password=" + db.Password,
		"dbname=" + db.Name,
	}

	if db.Extras != "" {
		parts = append(parts, db.Extras)
	}

	return strings.Join(parts, " ")
}
