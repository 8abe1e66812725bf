package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpggio/trendify/internal/domain/regression"
	"github.com/rpggio/trendify/internal/domain/session"
)

func predictCmd(opts *rootOptions) *cobra.Command {
	var inputs []string
	var format string

	c := &cobra.Command{
		Use:   "predict <artifact>",
		Short: "Predict the target of a saved model from input values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			values, err := parseInputs(inputs)
			if err != nil {
				return err
			}

			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx := cmd.Context()
			if _, err := svc.Sessions.LoadArtifact(ctx, session.DefaultID, args[0]); err != nil {
				return err
			}
			result, err := svc.Sessions.Predict(ctx, session.DefaultID, values)
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(cmd.OutOrStdout(), result)
			}
			w := cmd.OutOrStdout()
			names := make([]string, 0, len(result.Inputs))
			for name := range result.Inputs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(w, "%s = %s\n", name, result.Inputs[name])
			}
			fmt.Fprintf(w, "%s = %s\n", result.Target, regression.FormatNumber(result.Value, regression.DefaultPrecision))
			return nil
		},
	}

	c.Flags().StringArrayVarP(&inputs, "input", "i", nil, "Input value as name=value (repeatable)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

// parseInputs splits name=value pairs. Values stay text so the prediction
// engine reports every unparsable field at once.
func parseInputs(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid input %q (expected name=value)", pair)
		}
		values[name] = value
	}
	return values, nil
}
