// Command unibot runs the Univelcity lead engagement bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/univelcity/unibot/internal/catalog"
	"github.com/univelcity/unibot/internal/dispatcher"
	"github.com/univelcity/unibot/internal/engine"
	"github.com/univelcity/unibot/internal/messaging"
	"github.com/univelcity/unibot/internal/scheduler"
	"github.com/univelcity/unibot/internal/store"
	"github.com/univelcity/unibot/internal/twiliowhatsapp"
	"github.com/univelcity/unibot/internal/util"
	"github.com/univelcity/unibot/internal/whatsapp"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for UniBot state data
	DefaultStateDir = "/var/lib/unibot"
	// DefaultDBFileName is the default SQLite database filename for leads
	DefaultDBFileName = "unibot.db"
	// DefaultWhatsmeowDBFileName is the default SQLite filename for the WhatsApp session
	DefaultWhatsmeowDBFileName = "whatsmeow.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	if err := run(flags); err != nil {
		slog.Error("UniBot failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("UniBot exited successfully")
}

// Config holds environment configuration
type Config struct {
	LeadsDSN          string
	WhatsAppDSN       string
	StateDir          string
	Provider          string
	RefreshCron       string
	DisableOnboarding bool
}

// Flags holds command line flag values
type Flags struct {
	qrOutput          *string
	numeric           *bool
	stateDir          *string
	leadsDSN          *string
	whatsappDSN       *string
	provider          *string
	refreshCron       *string
	disableOnboarding *bool
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
		LeadsDSN:          os.Getenv("LEADS_DB_DSN"),
		WhatsAppDSN:       os.Getenv("WHATSAPP_DB_DSN"),
		StateDir:          os.Getenv("UNIBOT_STATE_DIR"),
		Provider:          os.Getenv("MESSAGING_PROVIDER"),
		RefreshCron:       os.Getenv("REFRESH_SCHEDULE"),
		DisableOnboarding: util.ParseBoolEnv("DISABLE_ONBOARDING", false),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No UNIBOT_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// Fall back to DATABASE_URL, then to SQLite files in the state directory
	if config.LeadsDSN == "" {
		config.LeadsDSN = os.Getenv("DATABASE_URL")
	}
	if config.LeadsDSN == "" {
		config.LeadsDSN = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No leads DSN provided, defaulting to SQLite", "sqlite_path", config.LeadsDSN)
	}
	if config.WhatsAppDSN == "" {
		config.WhatsAppDSN = filepath.Join(config.StateDir, DefaultWhatsmeowDBFileName)
	}
	if config.RefreshCron == "" {
		config.RefreshCron = scheduler.DefaultRefreshSchedule
	}

	slog.Debug("environment variables loaded",
		"LEADS_DB_DSN_SET", config.LeadsDSN != "",
		"WHATSAPP_DB_DSN_SET", config.WhatsAppDSN != "",
		"UNIBOT_STATE_DIR", config.StateDir,
		"MESSAGING_PROVIDER", config.Provider,
		"REFRESH_SCHEDULE", config.RefreshCron,
		"DISABLE_ONBOARDING", config.DisableOnboarding)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		qrOutput:          flag.String("qr-output", "", "path to write login QR code"),
		numeric:           flag.Bool("numeric-code", false, "use numeric login code instead of QR code"),
		stateDir:          flag.String("state-dir", config.StateDir, "state directory for UniBot data (overrides $UNIBOT_STATE_DIR)"),
		leadsDSN:          flag.String("db-dsn", config.LeadsDSN, "database DSN for the lead store (overrides $LEADS_DB_DSN or $DATABASE_URL)"),
		whatsappDSN:       flag.String("whatsapp-db-dsn", config.WhatsAppDSN, "database DSN for the WhatsApp session (overrides $WHATSAPP_DB_DSN)"),
		provider:          flag.String("provider", config.Provider, "messaging provider: whatsapp (default) or twilio (overrides $MESSAGING_PROVIDER)"),
		refreshCron:       flag.String("refresh-cron", config.RefreshCron, "cron schedule for directory refresh cycles (overrides $REFRESH_SCHEDULE)"),
		disableOnboarding: flag.Bool("disable-onboarding", config.DisableOnboarding, "skip name/course collection for unknown contacts (overrides $DISABLE_ONBOARDING)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"qrOutput", *flags.qrOutput,
		"numeric", *flags.numeric,
		"stateDir", *flags.stateDir,
		"leadsDSN_set", *flags.leadsDSN != "",
		"whatsappDSN_set", *flags.whatsappDSN != "",
		"provider", *flags.provider,
		"refreshCron", *flags.refreshCron,
		"disableOnboarding", *flags.disableOnboarding)

	return flags
}

// buildStore opens the lead store backend matching the DSN type.
func buildStore(flags Flags) (store.Store, error) {
	dsn := *flags.leadsDSN
	if store.DetectDSNType(dsn) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_set", true)
		return store.NewPostgresStore(store.WithPostgresDSN(dsn))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", dsn)
	return store.NewSQLiteStore(store.WithSQLiteDSN(dsn))
}

// buildMessagingService constructs the transport selected by the provider flag.
func buildMessagingService(flags Flags) (messaging.Service, error) {
	switch *flags.provider {
	case "", "whatsapp":
		var waOpts []whatsapp.Option
		if *flags.qrOutput != "" {
			waOpts = append(waOpts, whatsapp.WithQRCodeOutput(*flags.qrOutput))
		}
		if *flags.numeric {
			waOpts = append(waOpts, whatsapp.WithNumericCode())
		}
		if *flags.whatsappDSN != "" {
			waOpts = append(waOpts, whatsapp.WithDBDSN(*flags.whatsappDSN))
		}
		client, err := whatsapp.NewClient(waOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		return messaging.NewWhatsAppService(client), nil
	case "twilio":
		client, err := twiliowhatsapp.NewClient()
		if err != nil {
			return nil, fmt.Errorf("failed to create Twilio client: %w", err)
		}
		return messaging.NewTwilioService(client), nil
	default:
		return nil, fmt.Errorf("unknown messaging provider %q", *flags.provider)
	}
}

// run wires the modules together and blocks until shutdown.
func run(flags Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := buildStore(flags)
	if err != nil {
		return fmt.Errorf("failed to initialize lead store: %w", err)
	}
	defer st.Close()

	svc, err := buildMessagingService(flags)
	if err != nil {
		return err
	}
	defer svc.Stop()

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start messaging service: %w", err)
	}

	var engOpts []engine.Option
	if *flags.disableOnboarding {
		engOpts = append(engOpts, engine.WithOnboardingDisabled())
	}
	eng := engine.New(catalog.Default(), engOpts...)

	disp := dispatcher.New(st, svc, eng)
	disp.Start(ctx)
	disp.RunCycle(ctx)

	sched := scheduler.NewScheduler()
	defer sched.Stop()
	if err := sched.AddJob(*flags.refreshCron, func() { disp.RunCycle(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", *flags.refreshCron, err)
	}

	slog.Info("UniBot running", "refresh_schedule", *flags.refreshCron)
	<-ctx.Done()
	slog.Info("Shutdown signal received")
	return nil
}
