package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration loaded from the environment.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLitePath    string
	CSVOutputPath string

	NATSURL     string
	NATSSubject string

	ServerHost      string
	ServerPort      int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string

	AnalysisTimeout    time.Duration
	ParallelAnalyzers  bool
	TopicKeywords      []string
	LongFormThreshold  int
	ShortFormThreshold int

	MaxConcurrency int
	MaxRetries     int

	LogLevel string
	LogJSON  bool
}

// DefaultTopicKeywords is the business vocabulary used for keyword topic matching.
var DefaultTopicKeywords = []string{
	"marketing", "sales", "technology", "business", "finance", "health",
	"education", "productivity", "leadership", "startup", "design",
	"analytics", "social media", "strategy", "innovation", "ecommerce",
	"branding", "customer", "growth", "sustainability",
}

// Load reads the .env file (if any) and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     v.GetString("POSTGRES_PORT"),
		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRES_DB"),
		PostgresSSLMode:  v.GetString("POSTGRES_SSLMODE"),

		SQLitePath:    v.GetString("SQLITE_PATH"),
		CSVOutputPath: v.GetString("CSV_OUTPUT_PATH"),

		NATSURL:     v.GetString("NATS_URL"),
		NATSSubject: v.GetString("NATS_SUBJECT"),

		ServerHost:      v.GetString("SERVER_HOST"),
		ServerPort:      v.GetInt("SERVER_PORT"),
		ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
		ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		CorsOrigins:     splitList(v.GetString("SERVER_CORS_ORIGINS")),

		AnalysisTimeout:    v.GetDuration("ANALYSIS_TIMEOUT"),
		ParallelAnalyzers:  v.GetBool("ANALYSIS_PARALLEL"),
		TopicKeywords:      splitList(v.GetString("TOPIC_KEYWORDS")),
		LongFormThreshold:  v.GetInt("LONG_FORM_THRESHOLD"),
		ShortFormThreshold: v.GetInt("SHORT_FORM_THRESHOLD"),

		MaxConcurrency: v.GetInt("MAX_CONCURRENCY"),
		MaxRetries:     v.GetInt("MAX_RETRIES"),

		LogLevel: v.GetString("LOG_LEVEL"),
		LogJSON:  v.GetBool("LOG_JSON"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "intel")
	v.SetDefault("POSTGRES_PASSWORD", "intel123")
	v.SetDefault("POSTGRES_DB", "competitive_intel")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	v.SetDefault("SQLITE_PATH", "./output/analyses.db")
	v.SetDefault("CSV_OUTPUT_PATH", "./output/recommendations.csv")

	v.SetDefault("NATS_URL", "")
	v.SetDefault("NATS_SUBJECT", "analysis")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_CORS_ORIGINS", "*")

	v.SetDefault("ANALYSIS_TIMEOUT", 5*time.Second)
	v.SetDefault("ANALYSIS_PARALLEL", true)
	v.SetDefault("TOPIC_KEYWORDS", strings.Join(DefaultTopicKeywords, ","))
	v.SetDefault("LONG_FORM_THRESHOLD", 500)
	v.SetDefault("SHORT_FORM_THRESHOLD", 280)

	v.SetDefault("MAX_CONCURRENCY", 4)
	v.SetDefault("MAX_RETRIES", 3)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + strconv.Itoa(c.ServerPort)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
