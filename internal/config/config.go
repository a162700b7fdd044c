package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"time"

	"github.com/joho/godotenv" // optional .env support for local development
)

// Config holds all runtime configuration values.  It is built once at
// startup and passed by value into the components that need it; nothing
// below main reads the environment directly.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret string // symmetric secret used to sign session tokens

	Argon2MemoryKiB   uint32 // argon2id memory cost in KiB
	Argon2Iterations  uint32 // argon2id time cost
	Argon2Parallelism uint8  // argon2id lanes

	EntryTimeZone string // zone in which timesheet dates are interpreted
	RabbitMQURL   string // broker for domain events (empty disables publishing)
	AssetsDir     string // directory holding report templates and images
	RenderTimeout time.Duration
	ChromePath    string // optional headless Chrome executable
}

// Load reads configuration values from the environment (after merging an
// optional .env file) and returns a Config.  Required variables are enforced
// by must(); missing values cause the program to exit with a fatal log message.
func Load() Config {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	return Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTSecret: must("JWT_SECRET"),

		Argon2MemoryKiB:   uint32(envInt("ARGON2_MEMORY_KIB", 64*1024)),
		Argon2Iterations:  uint32(envInt("ARGON2_ITERATIONS", 3)),
		Argon2Parallelism: uint8(envInt("ARGON2_PARALLELISM", 4)),

		EntryTimeZone: envStr("ENTRY_TIME_ZONE", "Asia/Kolkata"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		AssetsDir:     envStr("ASSETS_DIR", "./public"),
		RenderTimeout: envDur("RENDER_TIMEOUT", 60*time.Second),
		ChromePath:    os.Getenv("CHROME_PATH"),
	}
}

// IsProduction reports whether the service runs with APP_ENV=prod.
func (c Config) IsProduction() bool { return c.Env == "prod" || c.Env == "production" }

// Location resolves EntryTimeZone, falling back to UTC when the zone is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.EntryTimeZone)
	if err != nil {
		log.Printf("unknown ENTRY_TIME_ZONE %q, using UTC", c.EntryTimeZone)
		return time.UTC
	}
	return loc
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
