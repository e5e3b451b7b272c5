package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"cardwise/internal/api"
	"cardwise/internal/common"
	"cardwise/internal/config"
	"cardwise/internal/notify"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recommendation HTTP API",
		RunE:  runServe,
	}

	cmd.Flags().String("listen", "", "Listen address (default :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings := config.Load()
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		settings.ListenAddr = listen
	}

	ctx := cmd.Context()

	store, err := initStorage(ctx, settings)
	if err != nil {
		return common.NewUserError("Failed to open storage", err)
	}
	defer func() { _ = store.Close() }()

	svc, err := buildService(settings)
	if err != nil {
		return err
	}

	prefs, err := store.GetPreferences(ctx)
	if err != nil {
		return common.NewUserError("Failed to load preferences", err)
	}
	notifier := notify.NewLogNotifier(prefs.NotificationsEnabled)

	server := &http.Server{
		Addr:              settings.ListenAddr,
		Handler:           api.NewRouter(store, svc, notifier),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", "addr", settings.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return common.NewUserError("Server shutdown failed", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
