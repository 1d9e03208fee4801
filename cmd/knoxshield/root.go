package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"knoxshield/cmd/knoxshield/run"
	"knoxshield/cmd/knoxshield/server"
	"knoxshield/cmd/knoxshield/settings"
	"knoxshield/cmd/knoxshield/vpn"

	"github.com/spf13/cobra"
)

func Execute() error {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "knoxshield",
		Short: "KNOX Shield security toolkit and VPN manager",
		Long:  `KNOX Shield runs security tools from a curated catalog, tracks their operations and manages VPN tunnels`,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(server.NewServerCommand())
	rootCmd.AddCommand(run.NewCatalogCommand())
	rootCmd.AddCommand(run.NewRunCommand())
	rootCmd.AddCommand(run.NewOpsCommand())
	rootCmd.AddCommand(vpn.NewVPNCommand())
	rootCmd.AddCommand(settings.NewSettingsCommand())
	rootCmd.AddCommand(settings.NewVersionCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
