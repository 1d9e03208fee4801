package vpn

import (
	"context"
	"fmt"
	"os"
	"strings"

	"knoxshield/internal/app"
	"knoxshield/internal/services"
	"knoxshield/internal/ui"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// withVPN builds the application graph, loads the server index and hands the VPN service to fn.
// The tunnel and kill switch outlive the command.
func withVPN(cmd *cobra.Command, fn func(ctx context.Context, vpn services.VPNServiceMethods) error) error {
	cmd.SilenceUsage = true
	verbose, _ := cmd.Flags().GetBool("verbose")

	ctx := cmd.Context()
	a, err := app.Load(ctx, verbose, app.Options{DetachVPN: true})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close(ctx)

	a.VPN.Load()
	return fn(ctx, a.VPN)
}

func NewVPNCommand() *cobra.Command {
	vpnCmd := &cobra.Command{
		Use:   "vpn",
		Short: "Manage VPN servers and the tunnel",
	}

	vpnCmd.AddCommand(
		newImportCommand(),
		newServersCommand(),
		newConnectCommand(),
		newDisconnectCommand(),
		newStatusCommand(),
		newKillSwitchCommand(),
		newLogsCommand(),
		newQRCommand(),
	)
	return vpnCmd
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a WireGuard (.conf) or OpenVPN (.ovpn) config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVPN(cmd, func(ctx context.Context, vpn services.VPNServiceMethods) error {
				server, err := vpn.ImportFile(args[0])
				if err != nil {
					return err
				}
				pterm.Success.Printf("Imported %s as %s (%s)\n", server.Name, server.ID, server.Protocol)
				return nil
			})
		},
	}
}

func newServersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List imported servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVPN(cmd, func(ctx context.Context, vpn services.VPNServiceMethods) error {
				servers, err := vpn.Servers()
				if err != nil {
					return err
				}
				ui.PrintServers(servers)
				return nil
			})
		},
	}
}

func newConnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <server-id>",
		Short: "Bring the tunnel up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVPN(cmd, func(ctx context.Context, vpn services.VPNServiceMethods) error {
				spinner, _ := pterm.DefaultSpinner.Start("Connecting...")
				st, err := vpn.Connect(ctx, args[0])
				if err != nil {
					spinner.Fail("VPN connection failed")
					ui.PrintVPNStatus(st)
					return err
				}
				spinner.Success("Connected")
				ui.PrintVPNStatus(st)
				return nil
			})
		},
	}
}

func newDisconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Bring the tunnel down",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVPN(cmd, func(ctx context.Context, vpn services.VPNServiceMethods) error {
				st, err := vpn.Disconnect(ctx)
				ui.PrintVPNStatus(st)
				return err
			})
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the tunnel status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVPN(cmd, func(ctx context.Context, vpn services.VPNServiceMethods) error {
				ui.PrintVPNStatus(vpn.Status())
				return nil
			})
		},
	}
}

func newKillSwitchCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "killswitch on|off",
		Short:     "Block or restore internet access outside the tunnel",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enable := strings.EqualFold(args[0], "on")
			return withVPN(cmd, func(ctx context.Context, vpn services.VPNServiceMethods) error {
				active, err := vpn.ToggleKillSwitch(ctx, enable)
				if err != nil {
					return err
				}
				if active {
					pterm.Warning.Println("Kill switch active")
				} else {
					pterm.Success.Println("Kill switch released")
				}
				return nil
			})
		},
	}
}

func newLogsCommand() *cobra.Command {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Work with the VPN event log",
	}

	var format, out string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the VPN log as text or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "txt" && format != "json" {
				return fmt.Errorf("format must be txt or json, got %q", format)
			}
			return withVPN(cmd, func(ctx context.Context, vpn services.VPNServiceMethods) error {
				if out == "" {
					return vpn.ExportLogs(os.Stdout, format)
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := vpn.ExportLogs(f, format); err != nil {
					return err
				}
				pterm.Success.Printf("VPN log written to %s\n", out)
				return nil
			})
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "txt", "Export format: txt or json")
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "Output file (stdout when empty)")

	logsCmd.AddCommand(exportCmd)
	return logsCmd
}

func newQRCommand() *cobra.Command {
	var (
		out  string
		size int
	)

	qrCmd := &cobra.Command{
		Use:   "qr <server-id>",
		Short: "Export a server config as a QR code PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVPN(cmd, func(ctx context.Context, vpn services.VPNServiceMethods) error {
				png, err := vpn.ServerQR(args[0], size)
				if err != nil {
					return err
				}
				if out == "" {
					out = args[0] + ".png"
				}
				if err := os.WriteFile(out, png, 0600); err != nil {
					return err
				}
				pterm.Success.Printf("QR code written to %s\n", out)
				return nil
			})
		},
	}
	qrCmd.Flags().StringVarP(&out, "out", "o", "", "Output PNG (defaults to <server-id>.png)")
	qrCmd.Flags().IntVarP(&size, "size", "s", services.DefaultQRSize, "Image size in pixels")

	return qrCmd
}
