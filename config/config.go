// Package config reads the runtime settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// DatabasePath is the sqlite file snapshots are stored in.
	DatabasePath string

	// Addr is the listen address of the HTTP API.
	Addr string

	AllowedOrigins []string

	// AssetsHost overrides where rendered pages load echarts from.
	AssetsHost string

	Workers int

	Width  int
	Height int
}

func Default() Config {
	return Config{
		DatabasePath:   "./data/vizplugins.db",
		Addr:           ":8080",
		AllowedOrigins: []string{"*"},
		Workers:        5,
		Width:          900,
		Height:         500,
	}
}

// Load reads the settings from the environment on top of Default. Values
// in envFile are loaded first, without overriding variables that are
// already set; a missing file is not an error.
func Load(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: Error loading %s file: %v", envFile, err)
	}

	cfg := Default()

	if v, ok := os.LookupEnv("VIZ_DATABASE"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv("VIZ_ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("VIZ_ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("VIZ_ASSETS_HOST"); ok {
		cfg.AssetsHost = v
	}

	var errs []error
	for name, target := range map[string]*int{
		"VIZ_WORKERS": &cfg.Workers,
		"VIZ_WIDTH":   &cfg.Width,
		"VIZ_HEIGHT":  &cfg.Height,
	} {
		if err := lookupInt(name, target); err != nil {
			errs = append(errs, err)
		}
	}

	return cfg, errors.Join(errs...)
}

func lookupInt(name string, target *int) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fmt.Errorf("%s must be a positive integer, got %q", name, v)
	}
	*target = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
