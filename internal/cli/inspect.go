package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rpggio/trendify/internal/domain/session"
	"github.com/spf13/cobra"
)

func inspectCmd(opts *rootOptions) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the columns, types and missing values of a data file",
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

			loaded, err := svc.Sessions.LoadTable(cmd.Context(), session.DefaultID, args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return printJSON(cmd.OutOrStdout(), loaded)
			}
			printPrettyLoad(cmd.OutOrStdout(), loaded)
			return nil
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printPrettyLoad(w io.Writer, loaded *session.LoadResult) {
	fmt.Fprintf(w, "File:    %s\n", loaded.Path)
	fmt.Fprintf(w, "Rows:    %d\n", loaded.Rows)
	fmt.Fprintf(w, "Columns: %d\n\n", len(loaded.Columns))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tMISSING")
	for _, col := range loaded.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", col.Name, col.Type, col.Missing)
	}
	_ = tw.Flush()

	if loaded.Census.Empty() {
		fmt.Fprintln(w, "\nNo missing values.")
	}
}
