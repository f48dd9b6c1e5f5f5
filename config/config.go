package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/meikuraledutech/roadmap/layout"
)

type Config struct {
	DatabaseURL    string        // ROADMAP_DATABASE_URL (optional, empty = in-memory store)
	HTTPAddr       string        // ROADMAP_HTTP_ADDR (default ":3000")
	NATSURL        string        // ROADMAP_NATS_URL (optional, empty = no events)
	CoursesURL     string        // ROADMAP_COURSES_URL (optional, empty = no recommendations)
	CoursesTimeout time.Duration // ROADMAP_COURSES_TIMEOUT (default 3s)
	LayoutFile     string        // ROADMAP_LAYOUT_FILE (optional YAML layout overrides)
	SinkBuffer     int           // ROADMAP_SINK_BUFFER (default 256)

	// Layout holds the defaults merged with LayoutFile.
	Layout layout.Options
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL: os.Getenv("ROADMAP_DATABASE_URL"),
		HTTPAddr:    envOrDefault("ROADMAP_HTTP_ADDR", ":3000"),
		NATSURL:     os.Getenv("ROADMAP_NATS_URL"),
		CoursesURL:  os.Getenv("ROADMAP_COURSES_URL"),
		LayoutFile:  os.Getenv("ROADMAP_LAYOUT_FILE"),
		Layout:      layout.DefaultOptions(),
	}

	timeout, err := time.ParseDuration(envOrDefault("ROADMAP_COURSES_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("ROADMAP_COURSES_TIMEOUT: %w", err)
	}
	c.CoursesTimeout = timeout

	c.SinkBuffer, err = strconv.Atoi(envOrDefault("ROADMAP_SINK_BUFFER", "256"))
	if err != nil {
		return nil, fmt.Errorf("ROADMAP_SINK_BUFFER: %w", err)
	}
	if c.SinkBuffer <= 0 {
		return nil, fmt.Errorf("ROADMAP_SINK_BUFFER: must be positive, got %d", c.SinkBuffer)
	}

	if c.LayoutFile != "" {
		if c.Layout, err = layout.LoadOptions(c.LayoutFile); err != nil {
			return nil, fmt.Errorf("ROADMAP_LAYOUT_FILE: %w", err)
		}
	}
	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
