package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/BTreeMap/GearBot/internal/bot"
	"github.com/BTreeMap/GearBot/internal/store"
	"github.com/BTreeMap/GearBot/internal/telegram"
	"github.com/BTreeMap/GearBot/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for GearBot state data
	DefaultStateDir = "/var/lib/gearbot"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "gearbot.db"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Build module options
	storeOpts := buildStoreOptions(flags)
	tgOpts := buildTelegramOptions(flags)
	botOpts := buildBotOptions(flags)

	slog.Info("Bootstrapping GearBot with configured modules")
	slog.Debug("Final configuration", "state_dir", *flags.stateDir, "dsn_set", *flags.dbDSN != "", "admins", len(flags.adminIDs))
	if err := bot.Run(storeOpts, tgOpts, botOpts...); err != nil {
		slog.Error("GearBot failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("GearBot exited successfully")
}

// Config holds environment configuration
type Config struct {
	BotToken     string
	DatabaseURL  string
	StateDir     string
	MediaDir     string
	AdminIDs     []int64
	SweepMinutes int
	NotifyDelay  int
	Debug        bool
}

// Flags holds command line flag values
type Flags struct {
	stateDir     *string
	dbDSN        *string
	botToken     *string
	mediaDir     *string
	sweepMinutes *int
	notifyDelay  *int
	debug        *bool
	adminIDs     []int64
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		BotToken:     os.Getenv("BOT_TOKEN"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		StateDir:     os.Getenv("GEARBOT_STATE_DIR"),
		MediaDir:     os.Getenv("MEDIA_DIR"),
		AdminIDs:     util.ParseIDListEnv("ADMIN_IDS"),
		SweepMinutes: util.ParseIntEnv("SWEEP_INTERVAL_MINUTES", bot.DefaultSweepIntervalMinutes),
		NotifyDelay:  util.ParseIntEnv("NOTIFY_DELAY_MS", 100),
		Debug:        util.ParseBoolEnv("BOT_DEBUG", false),
	}

	// Set default state directory if not specified
	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No GEARBOT_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	if config.MediaDir == "" {
		config.MediaDir = bot.DefaultMediaDir
	}

	slog.Debug("environment variables loaded",
		"BOT_TOKEN_SET", config.BotToken != "",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"GEARBOT_STATE_DIR", config.StateDir,
		"MEDIA_DIR", config.MediaDir,
		"ADMIN_IDS", len(config.AdminIDs),
		"SWEEP_INTERVAL_MINUTES", config.SweepMinutes,
		"NOTIFY_DELAY_MS", config.NotifyDelay,
		"BOT_DEBUG", config.Debug)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:     flag.String("state-dir", config.StateDir, "state directory for GearBot data (overrides $GEARBOT_STATE_DIR)"),
		dbDSN:        flag.String("db-dsn", config.DatabaseURL, "database DSN (overrides $DATABASE_URL)"),
		botToken:     flag.String("bot-token", config.BotToken, "Telegram bot token (overrides $BOT_TOKEN)"),
		mediaDir:     flag.String("media-dir", config.MediaDir, "PPE model photo directory (overrides $MEDIA_DIR)"),
		sweepMinutes: flag.Int("sweep-interval", config.SweepMinutes, "notification sweep interval in minutes (overrides $SWEEP_INTERVAL_MINUTES)"),
		notifyDelay:  flag.Int("notify-delay", config.NotifyDelay, "fan-out inter-message delay in milliseconds (overrides $NOTIFY_DELAY_MS)"),
		debug:        flag.Bool("debug", config.Debug, "enable Telegram client debug logging (overrides $BOT_DEBUG)"),
		adminIDs:     config.AdminIDs,
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"botToken_set", *flags.botToken != "",
		"mediaDir", *flags.mediaDir,
		"sweepMinutes", *flags.sweepMinutes,
		"notifyDelay", *flags.notifyDelay,
		"debug", *flags.debug)

	return flags
}

// buildStoreOptions builds store module options based on the DSN type.
func buildStoreOptions(flags Flags) []store.Option {
	dsn := *flags.dbDSN
	if store.DetectDSNType(dsn) == "postgres" {
		return []store.Option{store.WithPostgresDSN(dsn)}
	}
	return []store.Option{store.WithSQLiteDSN(dsn)}
}

// buildTelegramOptions builds Telegram client options.
func buildTelegramOptions(flags Flags) []telegram.Option {
	opts := []telegram.Option{telegram.WithToken(*flags.botToken)}
	if *flags.debug {
		opts = append(opts, telegram.WithDebug())
	}
	return opts
}

// buildBotOptions builds bot service options.
func buildBotOptions(flags Flags) []bot.Option {
	return []bot.Option{
		bot.WithStateDir(*flags.stateDir),
		bot.WithMediaDir(*flags.mediaDir),
		bot.WithAdminIDs(flags.adminIDs),
		bot.WithSweepInterval(*flags.sweepMinutes),
		bot.WithNotifyDelay(time.Duration(*flags.notifyDelay) * time.Millisecond),
	}
}
