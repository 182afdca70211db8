package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/api"
	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := loadConfig(context.Background())
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	log.Info().Str("dbType", config.GetString(cfg, "DB_TYPE", "sqlite")).Msg("connected to database")

	// If generating models, run generation and exit
	if config.GetBool(cfg, "GENERATE_MODELS", false) {
		if err := models.GenerateModels(db, config.GetString(cfg, "GENERATE_MODELS_OUT", "./query")); err != nil {
			log.Fatal().Err(err).Msg("model generation failed")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(cfg, "GENERATE_COLUMN_REPORT", false) {
		report, err := models.ColumnMismatches(db)
		if err != nil {
			log.Fatal().Err(err).Msg("column report failed")
		}
		report.Print(os.Stdout)
		return
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	store := database.New(db)

	deps, err := buildDependencies(context.Background(), cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build services")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(cfg, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// loadConfig reads the environment and, when SSM_PARAMETER_PATH is set, overlays the
// parameters stored below that path.
func loadConfig(ctx context.Context) (map[string]string, error) {
	cfg := config.New()
	prefix := config.GetString(cfg, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return cfg, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	client, err := config.NewSSMClient(ctx, config.GetString(cfg, "AWS_REGION", ""))
	if err != nil {
		return nil, err
	}
	params, err := config.LoadSSM(ctx, client, prefix)
	if err != nil {
		return nil, err
	}
	return config.Merge(cfg, params), nil
}

func setupLogging(cfg map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(cfg, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if config.GetString(cfg, "LOG_FORMAT", "console") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func buildDependencies(ctx context.Context, cfg map[string]string, store database.Database) (api.Dependencies, error) {
	deps := api.Dependencies{
		Store:        store,
		Passwords:    auth.NewPasswordService(),
		AdminEmail:   config.GetString(cfg, "ADMIN_EMAIL", ""),
		SecureCookie: config.GetBool(cfg, "SECURE_COOKIE", config.GetString(cfg, "ENV", "development") == "production"),
		Thumbnails:   services.NewThumbnailProcessor(config.GetInt(cfg, "THUMBNAIL_MAX_WIDTH", services.DefaultThumbnailWidth)),
	}

	if err := seedAdmin(ctx, cfg, store, deps.Passwords); err != nil {
		return deps, err
	}

	tokens, err := auth.NewTokenService(
		config.GetString(cfg, "JWT_SECRET", ""),
		config.GetDuration(cfg, "TOKEN_TTL_HOURS", time.Hour, 24*time.Hour),
	)
	if err != nil {
		return deps, err
	}
	deps.Tokens = tokens

	if deps.Objects, deps.UploadDir, err = objectStore(ctx, cfg); err != nil {
		return deps, err
	}

	alerts, err := notifier(cfg)
	if err != nil {
		return deps, err
	}
	deps.Alerts = alerts

	if apiKey := config.GetString(cfg, "RESEND_API_KEY", ""); apiKey != "" {
		mailer, err := services.NewResendMailer(apiKey, config.GetString(cfg, "EMAIL_FROM", "onboarding@resend.dev"))
		if err != nil {
			return deps, err
		}
		deps.Contact = services.NewContactRelay(mailer, alerts, config.GetString(cfg, "CONTACT_EMAIL", deps.AdminEmail))
		deps.Newsletter = services.NewNewsletter(mailer,
			config.GetString(cfg, "UNSUBSCRIBE_URL", ""),
			config.GetInt(cfg, "NEWSLETTER_CONCURRENCY", 0))
	} else {
		log.Warn().Msg("RESEND_API_KEY not set; contact and newsletter routes are disabled")
	}

	return deps, nil
}

// seedAdmin creates the administrator account on first start
func seedAdmin(ctx context.Context, cfg map[string]string, store database.Database, passwords *auth.PasswordService) error {
	email := config.GetString(cfg, "ADMIN_EMAIL", "")
	password := config.GetString(cfg, "ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		log.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set; no administrator seeded")
		return nil
	}
	hash, err := passwords.Hash(password)
	if err != nil {
		return err
	}
	created, err := store.UserRepo().EnsureAdmin(ctx, email, hash)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("email", email).Msg("administrator account created")
	}
	return nil
}

// objectStore uses S3 when S3_BUCKET is set and the local upload directory otherwise. The
// directory is returned so the server can expose it.
func objectStore(ctx context.Context, cfg map[string]string) (services.ObjectStore, string, error) {
	if bucket := config.GetString(cfg, "S3_BUCKET", ""); bucket != "" {
		region := config.GetString(cfg, "AWS_REGION", "us-east-1")
		client, err := services.NewS3Client(ctx, region)
		if err != nil {
			return nil, "", err
		}
		return services.NewS3Store(client, bucket, region, config.GetString(cfg, "S3_PUBLIC_URL", "")), "", nil
	}

	dir := config.GetString(cfg, "UPLOAD_DIR", "./uploads")
	disk, err := services.NewDiskStore(dir, config.GetString(cfg, "UPLOAD_PUBLIC_URL", "/uploads"))
	if err != nil {
		return nil, "", err
	}
	return disk, disk.Root(), nil
}

func notifier(cfg map[string]string) (services.Notifier, error) {
	sid := config.GetString(cfg, "TWILIO_ACCOUNT_SID", "")
	if sid == "" {
		return services.NopNotifier{}, nil
	}
	return services.NewTwilioNotifier(sid,
		config.GetString(cfg, "TWILIO_AUTH_TOKEN", ""),
		config.GetString(cfg, "TWILIO_FROM_NUMBER", ""),
		config.GetString(cfg, "ALERT_PHONE_NUMBER", ""))
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
