package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lakeguard/internal/monitor"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	var oneshot bool

	cmd := &cobra.Command{
		Use:   "verify [files...]",
		Short: "Check tracked files against their digest sidecars",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			l, err := buildLake()
			if err != nil {
				return err
			}

			files, err := selectFiles(l, args, oneshot)
			if err != nil {
				return err
			}

			err = buildMonitor(l).Verify(cmd.Context(), files)

			var verr *monitor.VerifyError
			if errors.As(err, &verr) {
				for _, v := range verr.Violations {
					fmt.Fprintln(cmd.ErrOrStderr(), red("FAIL"), v.String())
				}
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), green("ok"), fmt.Sprintf("%d file(s) verified", len(files)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneshot, "oneshot", false, "Scan the whole data lake root instead of taking file arguments")
	return cmd
}
