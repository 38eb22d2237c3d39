package config

import (
	"time"

	"library-backend/internal/infrastructure/database"
)

// loadDatabaseConfig reads DATABASE_URL plus the pool and retry tuning.
func loadDatabaseConfig(r *envReader) database.DBConfig {
	return database.DBConfig{
		URL:               r.str("DATABASE_URL", ""),
		MaxConns:          int32(r.int("DB_MAX_CONNS", 25)),
		MinConns:          int32(r.int("DB_MIN_CONNS", 2)),
		MaxConnLifetime:   r.duration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
		MaxConnIdleTime:   r.duration("DB_MAX_CONN_IDLE_TIME", time.Minute),
		HealthCheckPeriod: r.duration("DB_HEALTH_CHECK_PERIOD", time.Minute),
		MaxRetries:        r.int("DB_MAX_RETRIES", 5),
		RetryDelay:        r.duration("DB_RETRY_DELAY", time.Second),
		ConnectTimeout:    r.duration("DB_CONNECT_TIMEOUT", 10*time.Second),
	}
}
