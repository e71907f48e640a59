package configs

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

type ENV struct {
	AppEnv  string
	AppURL  string
	Port    string
	Workdir string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBPath     string
	DBRetries  int

	AppAuthKey  string
	AppEncKey   string
	JWTSecret   string
	JWTTTLHours int
	CSRFEnabled bool

	MediaRoot string
	MediaURL  string

	LogMode string
	LogFile string

	EmailHost     string
	EmailPort     int
	EmailUsername string
	EmailPassword string
	EmailFrom     string
	AdminEmail    string
	NotifyWorkers int

	MidtransServerKey string
	MidtransClientKey string
	MidtransEnv       string
}

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		zap.S().Debug("no .env file found, using process environment")
	}

	return ENV{
		AppEnv:  getenv("APP_ENV", "development"),
		AppURL:  getenv("APP_URL", "http://localhost:8080"),
		Port:    getenv("APP_PORT", ":8080"),
		Workdir: getenv("APP_WORKDIR", "."),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DBHost:     getenv("DB_HOST", "127.0.0.1"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME", "shop"),
		DBPort:     getenv("DB_PORT", "3306"),
		DBPath:     getenv("DB_PATH", "shop.db"),
		DBRetries:  cast.ToInt(getenv("DB_RETRIES", "10")),

		AppAuthKey:  os.Getenv("APP_AUTH_KEY"),
		AppEncKey:   os.Getenv("APP_ENC_KEY"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTLHours: cast.ToInt(getenv("JWT_TTL_HOURS", "24")),
		CSRFEnabled: cast.ToBool(getenv("CSRF_ENABLED", "false")),

		MediaRoot: getenv("MEDIA_ROOT", "media"),
		MediaURL:  getenv("MEDIA_URL", "/media/"),

		LogMode: getenv("LOG_MODE", "development"),
		LogFile: os.Getenv("LOG_FILE"),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     cast.ToInt(getenv("EMAIL_PORT", "587")),
		EmailUsername: os.Getenv("EMAIL_USERNAME"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     getenv("EMAIL_FROM", os.Getenv("EMAIL_USERNAME")),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		NotifyWorkers: cast.ToInt(getenv("NOTIFY_WORKERS", "4")),

		MidtransServerKey: os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransClientKey: os.Getenv("MIDTRANS_CLIENT_KEY"),
		MidtransEnv:       getenv("MIDTRANS_ENV", "sandbox"),
	}
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
