package config

import (
	"os"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Token         string `yaml:"-"`
	GuildID       string `yaml:"guild_id"`
	DatabaseURL   string `yaml:"-"`
	DashboardAddr string `yaml:"dashboard_addr"`
	CommandsDB    string `yaml:"commands_db"`
	Prefix        string `yaml:"prefix"`
	BotName       string `yaml:"bot_name"`

	Logger struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logger"`

	Moderation ModerationConfig `yaml:"moderation"`
	Presence   PresenceConfig   `yaml:"presence"`
}

type ModerationConfig struct {
	LogChannelName  string   `yaml:"log_channel_name"`
	MuteRoleName    string   `yaml:"mute_role_name"`
	MaxWarnings     int      `yaml:"max_warnings"`
	RequiredRoleIDs []string `yaml:"required_role_ids"`
}

type PresenceConfig struct {
	GameName        string   `yaml:"game_name"`
	Details         string   `yaml:"details"`
	States          []string `yaml:"states"`
	BigImageKey     string   `yaml:"big_image_key"`
	BigImageText    string   `yaml:"big_image_text"`
	SmallImageKey   string   `yaml:"small_image_key"`
	SmallImageText  string   `yaml:"small_image_text"`
	RotationSeconds int      `yaml:"rotation_seconds"`
}

func (p PresenceConfig) RotationInterval() time.Duration {
	return time.Duration(p.RotationSeconds) * time.Second
}

// Default returns the configuration the bot ships with.
func Default() *Config {
	cfg := &Config{
		DashboardAddr: "0.0.0.0:5000",
		CommandsDB:    "data/commands.db",
		Prefix:        "!",
		BotName:       "GTA Neijas Moderator",
		Moderation: ModerationConfig{
			LogChannelName:  "mod-logs",
			MuteRoleName:    "Muted",
			MaxWarnings:     3,
			RequiredRoleIDs: append([]string(nil), utils.DefaultRequiredRoleIDs...),
		},
		Presence: PresenceConfig{
			GameName: "Grand Theft Auto: Neijas",
			Details:  "Grand Theft Auto: Neijas V1.0 Singleplayer",
			States: []string{
				"Walking in Downtown Crockton",
				"Driving an Infernus through Bottomtown San Concepcion",
				"Walking in Bartine University",
			},
			BigImageKey:     "gta_neijas_logo",
			BigImageText:    "Armor: 0/100 Health: 100/100",
			SmallImageKey:   "weapon_fist",
			SmallImageText:  "Fist",
			RotationSeconds: 180,
		},
	}
	cfg.Logger.Level = "info"
	return cfg
}

// Load reads .env, an optional YAML file at path, then the environment.
// The environment always wins.
func Load(path string) (*Config, error) {
	// a missing .env is fine, the variables may come from the real environment
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "read config file")
		}
		if err == nil {
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, errors.Wrap(err, "parse config file")
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Token, "DISCORD_BOT_TOKEN")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.GuildID, "GUILD_ID")
	setString(&c.DashboardAddr, "DASHBOARD_ADDR")
	setString(&c.CommandsDB, "CUSTOM_COMMANDS_DB")
	setString(&c.Logger.Level, "LOG_LEVEL")
	setString(&c.Logger.File, "LOG_FILE")

	if v := os.Getenv("REQUIRED_ROLE_IDS"); v != "" {
		c.Moderation.RequiredRoleIDs = utils.SplitList(v)
	}

	if v := os.Getenv("MAX_WARNINGS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "MAX_WARNINGS")
		}
		c.Moderation.MaxWarnings = n
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.New("discord bot token not found, set DISCORD_BOT_TOKEN")
	}
	if c.Moderation.MaxWarnings < 1 {
		return errors.New("moderation.max_warnings must be at least 1")
	}
	if len(c.Presence.States) == 0 {
		return errors.New("presence.states must not be empty")
	}
	if c.Presence.RotationSeconds < 1 {
		return errors.New("presence.rotation_seconds must be positive")
	}
	return nil
}
