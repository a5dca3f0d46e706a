package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	Environment           string
	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRedirectURI     string
	XClientID             string
	XClientSecret         string
	XRedirectURI          string
	PinterestClientID     string
	PinterestClientSecret string
	PinterestRedirectURI  string
	TiktokClientKey       string
	TiktokClientSecret    string
	TiktokRedirectURI     string
	OpenAIAPIKey          string
	PostgresURI           string
	RedisURI              string
	FrontendURL           string
	MigrationsPath        string
	R2                    R2
	SecretKey             string
	CookieName            string
	CronSecret            string
}

func LoadConfig() *Config {
	return &Config{
		Environment:           getEnv("ENVIRONMENT", "development"),
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:     getEnv("GOOGLE_REDIRECT_URI", ""),
		XClientID:             getEnv("X_CLIENT_ID", ""),
		XClientSecret:         getEnv("X_CLIENT_SECRET", ""),
		XRedirectURI:          getEnv("X_REDIRECT_URI", ""),
		PinterestClientID:     getEnv("PINTEREST_CLIENT_ID", ""),
		PinterestClientSecret: getEnv("PINTEREST_CLIENT_SECRET", ""),
		PinterestRedirectURI:  getEnv("PINTEREST_REDIRECT_URI", ""),
		TiktokClientKey:       getEnv("TIKTOK_CLIENT_KEY", ""),
		TiktokClientSecret:    getEnv("TIKTOK_CLIENT_SECRET", ""),
		TiktokRedirectURI:     getEnv("TIKTOK_REDIRECT_URI", ""),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		PostgresURI:           getEnv("POSTGRES_URI", ""),
		RedisURI:              getEnv("REDIS_URI", ""),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:5173"),
		MigrationsPath:        getEnv("MIGRATIONS_PATH", "file://migrations"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "postloop_session"),
		CronSecret: getEnv("CRON_SECRET", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
