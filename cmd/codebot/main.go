package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"codebot/internal/bot"
	"codebot/internal/config"
	"codebot/internal/repository"
	"codebot/internal/server"
	"codebot/internal/service"
)

var (
	configPath string
	debug      bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "codebot",
	Short: "Telegram webhook bot that answers stored codes",
	Long: `codebot receives Telegram updates on a webhook and replies with the
response stored for the text it was sent. The admin manages codes with
/addcode, /deletecode and /listcodes.

Run without a subcommand to start the webhook server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		logger, err = newLogger(debug || cfg.LogLevel == "debug")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook HTTP server",
	RunE:  runServe,
}

var (
	dropPending   bool
	deleteWebhook bool
)

var setWebhookCmd = &cobra.Command{
	Use:   "set-webhook [url]",
	Short: "Register the webhook URL and secret with Telegram",
	Long: `Registers the webhook with Telegram. The URL comes from the argument or
WEBHOOK_URL; WEBHOOK_SECRET is sent as secret_token so updates can be verified.

Example:
  codebot set-webhook https://bot.example.com/`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetWebhook,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	setWebhookCmd.Flags().BoolVar(&dropPending, "drop-pending", false, "drop updates queued while no webhook was set")
	setWebhookCmd.Flags().BoolVar(&deleteWebhook, "delete", false, "remove the webhook instead of setting it")

	rootCmd.AddCommand(serveCmd, setWebhookCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := repository.NewDatabase(cfg.DatabaseURL, logger.Named("store"))
	if err := db.Connect(ctx); err != nil {
		logger.Warn("database unavailable, serving in degraded mode", zap.Error(err))
	}
	defer db.Close()

	messenger, err := bot.NewTelegramMessenger(cfg.TelegramToken, "", nil, logger.Named("telegram"))
	if err != nil {
		return err
	}

	if cfg.AdminID == 0 {
		logger.Warn("ADMIN_ID not set, admin commands are disabled")
	}
	dispatcher := bot.NewDispatcher(repository.NewStore(db), cfg.AdminID, cfg.StartTrigger, logger.Named("dispatcher"))
	srv := server.New(dispatcher, messenger, cfg.WebhookSecret, logger.Named("http"))

	scheduler := service.NewSchedulerService(time.Local, logger.Named("scheduler"))
	if cfg.ProbeInterval > 0 {
		monitor := service.NewStoreMonitor(db, 10*time.Second, logger.Named("store"))
		if err := monitor.Schedule(scheduler, cfg.ProbeInterval); err != nil {
			return fmt.Errorf("schedule store probe: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("codebot started", zap.String("addr", cfg.ListenAddr), zap.String("bot", messenger.Username()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func runSetWebhook(_ *cobra.Command, args []string) error {
	messenger, err := bot.NewTelegramMessenger(cfg.TelegramToken, "", nil, logger.Named("telegram"))
	if err != nil {
		return err
	}
	if deleteWebhook {
		return messenger.DeleteWebhook(dropPending)
	}

	url := cfg.WebhookURL
	if len(args) == 1 {
		url = args[0]
	}
	if url == "" {
		return fmt.Errorf("webhook url is required (argument or WEBHOOK_URL)")
	}
	if cfg.WebhookSecret == "" {
		logger.Warn("WEBHOOK_SECRET not set, updates will not be verified")
	}
	return messenger.SetWebhook(url, cfg.WebhookSecret, dropPending)
}
