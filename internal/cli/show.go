package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/domain/session"
)

func showCmd(opts *rootOptions) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "show <artifact>",
		Short: "Show the formula, columns, metrics and description of a saved model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			a, err := svc.Sessions.LoadArtifact(cmd.Context(), session.DefaultID, args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return printJSON(cmd.OutOrStdout(), a)
			}
			printPrettyArtifact(cmd.OutOrStdout(), a)
			return nil
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printPrettyArtifact(w io.Writer, a *artifact.Artifact) {
	fmt.Fprintf(w, "Formula:     %s\n", a.Formula)
	fmt.Fprintf(w, "Inputs:      %s\n", strings.Join(a.InputColumns, ", "))
	fmt.Fprintf(w, "Output:      %s\n", a.OutputColumn)
	fmt.Fprintf(w, "R²:          %.4f\n", a.Metrics.R2)
	fmt.Fprintf(w, "MSE:         %.4f\n", a.Metrics.MSE)
	description := a.Description
	if description == "" {
		description = "(none)"
	}
	fmt.Fprintf(w, "Description: %s\n", description)
	if a.ID != "" {
		fmt.Fprintf(w, "ID:          %s\n", a.ID)
	}
	if !a.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created:     %s\n", a.CreatedAt.Format(time.RFC3339))
	}
}
