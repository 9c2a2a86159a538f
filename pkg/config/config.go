package config

import "os"

type Config struct {
	Port            string
	Env             string
	LogLevel        string
	PostgresConnStr string
	RedisAddr       string
	MetricsPort     string
	JWTSecret       string
	S3Bucket        string
	S3Region        string
	MediaDir        string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		JWTSecret:       getEnv("JWT_SECRET", "supersecretjwtkey"),
		S3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		S3Region:        getEnv("AWS_REGION", "us-east-1"),
		MediaDir:        getEnv("MEDIA_DIR", "./media"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
