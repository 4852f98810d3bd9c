package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Strings are used for identifiers and secrets,
// ints for durations and costs.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	JWTSecret   string // secret used to sign JWTs
	TokenTTLHrs int    // access token time-to-live in hours
	BcryptCost  int    // bcrypt cost for password hashing

	DBMaxConns     int // connection pool cap (open and idle)
	DBConnLifetime int // minutes before a pooled connection is recycled

	AdminEmployeeID string // employee id of the bootstrap admin account
	AdminPassword   string // initial password of the bootstrap admin account
	AdminName       string // display name of the bootstrap admin account
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		JWTSecret:   must("JWT_SECRET"),
		TokenTTLHrs: mustInt("TOKEN_TTL_HOURS"),
		BcryptCost:  mustInt("BCRYPT_COST"),

		DBMaxConns:     getenvInt("DB_MAX_CONNS", 25),
		DBConnLifetime: getenvInt("DB_CONN_LIFETIME_MIN", 30),

		// Bootstrap admin credentials fall back to defaults so a fresh
		// install is reachable before any users exist.
		AdminEmployeeID: getenv("ADMIN_EMPLOYEE_ID", "admin"),
		AdminPassword:   getenv("ADMIN_PASSWORD", "Admin@123"),
		AdminName:       getenv("ADMIN_NAME", "System Administrator"),
	}
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

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getenvInt reads an optional integer variable, falling back to def when the
// variable is unset or malformed.
func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
