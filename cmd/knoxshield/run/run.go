package run

import (
	"fmt"
	"strings"
	"time"

	"knoxshield/internal/app"
	"knoxshield/internal/models"
	"knoxshield/internal/services"
	"knoxshield/internal/ui"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const pollInterval = 250 * time.Millisecond

// ParseParams turns repeated label=value flags into the run-form map.
// Only the first '=' separates, so values may contain '='.
func ParseParams(raw []string) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for _, kv := range raw {
		label, value, ok := strings.Cut(kv, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, fmt.Errorf("invalid --param %q, expected label=value", kv)
		}
		params[label] = value
	}
	return params, nil
}

func NewRunCommand() *cobra.Command {
	var (
		task   string
		params []string
	)

	runCmd := &cobra.Command{
		Use:   "run <tool-id>",
		Short: "Run a catalog tool and follow its progress",
		Long:  `Run a catalog tool in-process, showing a live progress bar, then print its log and any findings`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			verbose, _ := cmd.Flags().GetBool("verbose")

			parsed, err := ParseParams(params)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := app.Load(ctx, verbose, app.Options{WithoutVPN: true})
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer a.Close(ctx)

			lang := a.Preferences.Language()
			op, err := a.Operations.StartOperation(services.StartOperationRequest{
				ToolID: args[0],
				Task:   task,
				Params: parsed,
				Lang:   lang,
			})
			if err != nil {
				return err
			}

			bar, _ := pterm.DefaultProgressbar.WithTotal(100).WithTitle(op.TaskDescription).Start()
			ticker := time.NewTicker(pollInterval)
			defer ticker.Stop()

			done := ctx.Done()
			for !op.Status.Terminal() {
				select {
				case <-done:
					done = nil
					pterm.Warning.Println("Stopping operation...")
					if _, err := a.Operations.ApplyAction(op.ID, services.ActionStop); err != nil {
						_, _ = bar.Stop()
						return err
					}
				case <-ticker.C:
				}

				if op, err = a.Operations.GetOperation(op.ID); err != nil {
					_, _ = bar.Stop()
					return err
				}
				if delta := int(op.Progress) - bar.Current; delta > 0 {
					bar.Add(delta)
				}
			}
			_, _ = bar.Stop()

			pterm.DefaultSection.Println("Log")
			for _, line := range op.Logs {
				pterm.Println(line)
			}

			ui.PrintFindings(op.ScanResults, lang)
			if op.Status == models.StatusError {
				return fmt.Errorf("operation %s failed", op.ID)
			}
			pterm.Success.Printf("Operation %s finished.\n", op.ID)
			return nil
		},
	}

	runCmd.Flags().StringVarP(&task, "task", "t", "", "Task description (defaults to the tool name)")
	runCmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Run parameter as label=value, repeatable")

	return runCmd
}
