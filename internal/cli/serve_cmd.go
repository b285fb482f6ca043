package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/machinetrack/shopfloor/internal/realtime"
	"github.com/machinetrack/shopfloor/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.Addr
			}

			server := web.NewServer(web.Deps{
				Logger:    app.Logger,
				Users:     app.Users,
				Machines:  app.Machines,
				Projects:  app.Projects,
				Tasks:     app.Tasks,
				Dashboard: app.Dashboard,
				Audits:    app.Audits,
				Exporter:  app.Exporter,
				Sessions:  app.Sessions,
				Hub:       realtime.NewHub(app.Bus, app.Logger),
			})
			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           server,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpSrv.ListenAndServe()
			}()
			app.Logger.Info().Str("addr", addr).Str("db", app.Config.DBPath).Msg("listening")

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				app.Logger.Info().Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return httpSrv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
