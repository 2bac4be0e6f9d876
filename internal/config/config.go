package config

import (
	"log"

	"github.com/spf13/viper"
)

// MinJWTSecretLength is the minimum accepted length for the signing secret
const MinJWTSecretLength = 16

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Admin    AdminBootstrapConfig
	Upload   UploadConfig
	Orders   OrderConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	ExpiryDays int
}

type CORSConfig struct {
	ClientOrigin string
}

// AdminBootstrapConfig holds optional first-run admin credentials. When both
// fields are set, the admin account is seeded at startup.
type AdminBootstrapConfig struct {
	Username string
	Password string
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

type OrderConfig struct {
	// StrictTotals recomputes line totals and the subtotal on creation and
	// rejects mismatches instead of trusting client-supplied values.
	StrictTotals bool
	// StrictStatusFlow swaps the permissive transition table for the
	// forward-chain table.
	StrictStatusFlow bool
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_EXPIRY_DAYS", 7)
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	viper.SetDefault("ORDER_STRICT_TOTALS", false)
	viper.SetDefault("ORDER_STRICT_STATUS_FLOW", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	secret := viper.GetString("JWT_SECRET")
	if len(secret) < MinJWTSecretLength {
		log.Fatalf("JWT_SECRET must be at least %d characters", MinJWTSecretLength)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:     secret,
			ExpiryDays: viper.GetInt("JWT_EXPIRY_DAYS"),
		},
		CORS: CORSConfig{
			ClientOrigin: viper.GetString("CLIENT_ORIGIN"),
		},
		Admin: AdminBootstrapConfig{
			Username: viper.GetString("ADMIN_BOOTSTRAP_USER"),
			Password: viper.GetString("ADMIN_BOOTSTRAP_PASS"),
		},
		Upload: UploadConfig{
			Dir:      viper.GetString("UPLOAD_DIR"),
			MaxBytes: viper.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Orders: OrderConfig{
			StrictTotals:     viper.GetBool("ORDER_STRICT_TOTALS"),
			StrictStatusFlow: viper.GetBool("ORDER_STRICT_STATUS_FLOW"),
		},
	}
}
