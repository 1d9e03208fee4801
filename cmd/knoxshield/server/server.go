package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"knoxshield/api/routes"
	"knoxshield/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type ServerOpts struct {
	Port int
	Ip   string
}

func NewServerCommand() *cobra.Command {
	opts := &ServerOpts{}

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the KNOX Shield server",
		Long:  `Start the KNOX Shield server to browse tools, run operations and manage the VPN via a web interface`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			verbose, _ := cmd.Flags().GetBool("verbose")
			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx := cmd.Context()
			a, err := app.Load(ctx, verbose, app.Options{})
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			cfg := a.Config
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = opts.Port
			}
			if cmd.Flags().Changed("ip") {
				cfg.Server.IP = opts.Ip
			}

			a.VPN.Start(ctx)

			router := routes.InitRouter(routes.Deps{
				Catalog:     a.Catalog,
				Operations:  a.Operations,
				AI:          a.AI,
				Preferences: a.Preferences,
				VPN:         a.VPN,
				Events:      a.Events,
				Logger:      a.Logger,
				CORSOrigins: cfg.Server.CORSOrigins,
			})

			srv := &http.Server{
				Addr:              fmt.Sprintf("%s:%d", cfg.Server.IP, cfg.Server.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				// event streams end with the signal context
				BaseContext:       func(net.Listener) context.Context { return ctx },
			}

			errChan := make(chan error, 1)
			go func() {
				a.Logger.WithField("addr", srv.Addr).Info("KNOX Shield server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errChan <- err
				}
				close(errChan)
			}()

			select {
			case err := <-errChan:
				a.Close(context.Background())
				return err
			case <-ctx.Done():
				a.Logger.Info("Received shutdown signal")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.Logger.WithError(err).Warn("Server shutdown incomplete")
			}
			a.Close(shutdownCtx)
			return nil
		},
	}

	serverCmd.Flags().IntVarP(&opts.Port, "port", "p", 8080, "Port to run the server on")
	serverCmd.Flags().StringVarP(&opts.Ip, "ip", "i", "localhost", "IP address to bind the server to")

	return serverCmd
}
