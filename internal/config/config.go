package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr          string
	DatabaseURL   string
	Seed          int64
	StartingCash  int64
	AutosaveEvery time.Duration
	AutosaveSlot  string
	SessionTTL    time.Duration
}

type CLIConfig struct {
	APIBaseURL string
	SaveDir    string
	Seed       int64
}

type SimConfig struct {
	Runs         int
	Weeks        int
	Seed         int64
	StartingCash int64
	Every        time.Duration
	DatabaseURL  string
	ReportSlot   string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("MOGUL_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:          addr,
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Seed:          envInt64Default("MOGUL_SEED", 0),
		StartingCash:  envInt64Default("MOGUL_STARTING_CASH", 0),
		AutosaveEvery: envDurationDefault("MOGUL_AUTOSAVE_EVERY", 2*time.Minute),
		AutosaveSlot:  envDefault("MOGUL_AUTOSAVE_SLOT", "autosave"),
		SessionTTL:    envDurationDefault("MOGUL_SESSION_TTL", 6*time.Hour),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	home, _ := os.UserHomeDir()
	defaultDir := ".mogul"
	if home != "" {
		defaultDir = home + "/.mogul"
	}
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("MGL_API_BASE_URL", "http://localhost:8080"), "/"),
		SaveDir:    envDefault("MGL_SAVE_DIR", defaultDir),
		Seed:       envInt64Default("MGL_SEED", 0),
	}
}

func LoadSimFromEnv() SimConfig {
	return SimConfig{
		Runs:         int(envInt64Default("MOGUL_SIM_RUNS", 200)),
		Weeks:        int(envInt64Default("MOGUL_SIM_WEEKS", 104)),
		Seed:         envInt64Default("MOGUL_SEED", 1),
		StartingCash: envInt64Default("MOGUL_STARTING_CASH", 0),
		Every:        envDurationDefault("MOGUL_SIM_EVERY", time.Hour),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ReportSlot:   envDefault("MOGUL_SIM_REPORT_SLOT", ""),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
