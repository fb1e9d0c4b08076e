package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ConfirmEmoji - Reaction used by invitees to confirm joining a group
const ConfirmEmoji = "✅"

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	Token   string `env:"DISCORD_TOKEN,required,notEmpty"`
	APIBase string `env:"DISCORD_API_BASE" envDefault:"https://discord.com/api/v10"`
	Prefix  string `env:"BOT_PREFIX" envDefault:"!"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/groupbot.db"`

	// PollInterval drives the confirmation poller. ConfirmationTTL expires
	// abandoned requests; set to 0 to keep them pending forever.
	PollInterval    time.Duration `env:"CONFIRMATION_POLL_INTERVAL" envDefault:"40s"`
	ConfirmationTTL time.Duration `env:"CONFIRMATION_TTL" envDefault:"24h"`
	PollWorkers     int           `env:"POLL_WORKERS" envDefault:"4"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	// Parent categories the provisioned channels are filed under, matched
	// by exact name. StaffRoleName optionally grants a staff role view
	// access to every group channel.
	TextCategoryName  string `env:"TEXT_CATEGORY_NAME" envDefault:"group-text"`
	VoiceCategoryName string `env:"VOICE_CATEGORY_NAME" envDefault:"group-voice"`
	StaffRoleName     string `env:"STAFF_ROLE_NAME"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
