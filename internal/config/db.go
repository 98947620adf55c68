package config

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
// For sqlite Name is the file path, ":memory:" keeps the database in memory.
type DB struct {
	Extras     string `mapstructure:"extras"     toml:"extras"`
	Host       string `mapstructure:"host"       toml:"host"`
	Port       int    `mapstructure:"port"       toml:"port"`
	User       string `mapstructure:"user"       toml:"user"`
	Password   string `mapstructure:"password"   toml:"-"          json:"-"`
	Name       string `mapstructure:"name"       toml:"name"`
	GormEngine string `mapstructure:"gormEngine" toml:"gormEngine"`
	LogQueries bool   `mapstructure:"logQueries" toml:"logQueries"`
}
