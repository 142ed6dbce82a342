package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"telegram_relay/internal/app"
	"telegram_relay/internal/infra/config"
	"telegram_relay/internal/infra/httpapi"
	"telegram_relay/internal/infra/logger"
	"telegram_relay/internal/infra/metrics"
	"telegram_relay/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Set by ldflags.
var version = "dev"

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "relay",
		Short:         "Forward result messages to a Telegram chat over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("relay %s\n", version)
		},
	}
}

func serveCmd() *cobra.Command {
	var (
		addr    string
		envFile string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var envFiles []string
			if envFile != "" {
				envFiles = append(envFiles, envFile)
			}
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return fmt.Errorf("could not load application configuration: %w", err)
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			logger.Init(cfg)
			mainLogger := logger.Component("main")
			mainLogger.WithFields(logrus.Fields{
				"environment":  cfg.Environment,
				"telegram_api": cfg.TelegramAPIURL,
				"timeout":      cfg.TelegramTimeout.String(),
			}).Info("Configuration loaded")
			if !cfg.HasTelegramCredentials() {
				mainLogger.Warnf("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, %s will answer with a configuration error", httpapi.RouteNotify)
			}

			recorder := metrics.NewRecorder()
			server := httpapi.NewServer(cfg.HTTPAddr, buildRouter(cfg, recorder), cfg.TelegramTimeout, logger.Component("http"))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides HTTP_ADDR)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to a .env file (default ./.env)")
	return cmd
}

// buildRouter wires both credential strategies to one sender and one recorder.
func buildRouter(cfg *config.AppConfig, recorder *metrics.Recorder) http.Handler {
	sender := telegram.NewRestyClient(cfg.TelegramAPIURL, cfg.TelegramTimeout)
	relayLogger := logger.Component("relay")

	submitService := app.NewRelayService(app.RequestCredentials{}, sender, recorder, relayLogger)
	notifyService := app.NewRelayService(
		app.NewConfiguredCredentials(cfg.TelegramBotToken, cfg.TelegramChatID),
		sender,
		recorder,
		relayLogger,
	)

	return httpapi.NewRouter(httpapi.Routes{
		Submit:  httpapi.NewHandler(httpapi.RouteSubmit, submitService, recorder, relayLogger),
		Notify:  httpapi.NewHandler(httpapi.RouteNotify, notifyService, recorder, relayLogger),
		Metrics: recorder.Handler(),
	})
}
