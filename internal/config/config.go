package config

import (
	"os"
)

// Config is the full environment surface of the service. Nothing here is
// fatal at startup: a missing database or Supabase URL degrades to a
// deterministic configuration error on the affected endpoints instead of
// crashing the process.
type Config struct {
	Port string

	// Local store (Postgres).
	DatabaseURL string

	// Auth collaborator (Supabase-compatible GoTrue endpoint).
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string

	// Upstream mirror. Both must be set for mirroring to run at all.
	HashnodeEndpoint  string
	HashnodeAuthToken string
}

func Load() Config {
	cfg := Config{
		Port:               os.Getenv("PORT"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		HashnodeEndpoint:   os.Getenv("HASHNODE_GQL_ENDPOINT"),
		HashnodeAuthToken:  os.Getenv("HASHNODE_AUTH_TOKEN"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg
}

// AuthConfigured reports whether the auth collaborator can be reached.
func (c Config) AuthConfigured() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

// HashnodeConfigured reports whether upstream mirroring is enabled.
func (c Config) HashnodeConfigured() bool {
	return c.HashnodeEndpoint != "" && c.HashnodeAuthToken != ""
}
