package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"moodscale/internal/app"
	"moodscale/internal/config"
	"moodscale/internal/logging"
	"moodscale/internal/service"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "moodscale",
		Short:        "Emotion journal API",
		SilenceUsage: true,
		RunE:         c.runServe,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv("MOODSCALE_CONFIG"), "path to a YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			RunE:  c.runServe,
		},
		&cobra.Command{
			Use:   "emotions",
			Short: "List the emotions in the question catalogue",
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd.Context(), func(a *app.App) error {
					for _, emotion := range a.JournalService.Emotions() {
						fmt.Fprintln(cmd.OutOrStdout(), emotion)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "questions <emotion>",
			Short: "Print the follow-up questions for an emotion",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd.Context(), func(a *app.App) error {
					questions, err := a.JournalService.Questions(args[0])
					if err != nil {
						return fmt.Errorf("%s: %w", args[0], err)
					}
					return printJSON(cmd, questions)
				})
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Print aggregate statistics over the journal",
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd.Context(), func(a *app.App) error {
					entries, err := a.JournalService.Entries(cmd.Context())
					if err != nil {
						return err
					}
					stats := service.ComputeStats(entries)
					return printJSON(cmd, map[string]interface{}{
						"entries":     len(entries),
						"counts":      service.Counts(entries),
						"overall":     stats.Overall,
						"by_question": stats.ByQuestion,
					})
				})
			},
		},
	)
	return root
}

func (c *cli) loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	return app.New(ctx, cfg, log)
}

func (c *cli) withApp(ctx context.Context, fn func(a *app.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := c.loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)
	return fn(a)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := c.loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	log := a.Log
	srv := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           a.Router(Version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"version": Version,
			"backend": a.Config.Store.Backend,
			"auth":    a.Config.Auth.Enabled,
		}).Info("server starting")
		log.Info("endpoints: GET /questions/{emotion}, POST /log_emotion/, GET /stats/, GET /entries/, WS /ws/dashboard")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
