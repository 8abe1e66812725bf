package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/rpggio/trendify/internal/domain/regression"
	"github.com/rpggio/trendify/internal/domain/session"
)

type fitReport struct {
	Load       *session.LoadResult      `json:"load"`
	Remediated *session.RemediateResult `json:"remediated,omitempty"`
	Selection  *session.SelectionResult `json:"selection"`
	Fit        *session.FitResult       `json:"fit"`
	Plot       *session.PlotResult      `json:"plot,omitempty"`
	Artifact   *artifact.Artifact       `json:"artifact,omitempty"`
	SavedTo    string                   `json:"saved_to,omitempty"`
}

func fitCmd(opts *rootOptions) *cobra.Command {
	var features []string
	var target string
	var fill string
	var constant string
	var fillColumns []string
	var description string
	var out string
	var plotPath string
	var format string

	c := &cobra.Command{
		Use:   "fit <file>",
		Short: "Load a data file, handle missing values and fit a linear model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			var remedy *dataset.Remedy
			if fill != "" {
				policy, err := dataset.ParsePolicy(fill)
				if err != nil {
					return err
				}
				remedy = &dataset.Remedy{Policy: policy, Constant: constant, Columns: fillColumns}
			}

			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx := cmd.Context()
			id := session.DefaultID
			report := fitReport{}

			if report.Load, err = svc.Sessions.LoadTable(ctx, id, args[0]); err != nil {
				return err
			}
			if remedy != nil {
				if report.Remediated, err = svc.Sessions.Remediate(ctx, id, *remedy); err != nil {
					return err
				}
			}
			if _, err = svc.Sessions.SelectFeatures(ctx, id, features); err != nil {
				return err
			}
			if report.Selection, err = svc.Sessions.SelectTarget(ctx, id, target); err != nil {
				return err
			}
			if description != "" {
				if err := svc.Sessions.SetDescription(ctx, id, description); err != nil {
					return err
				}
			}
			if report.Fit, err = svc.Sessions.Fit(ctx, id); err != nil {
				return err
			}
			if plotPath != "" {
				if report.Plot, err = svc.Sessions.Plot(ctx, id, plotPath); err != nil {
					return err
				}
			}
			if out != "" {
				if report.Artifact, err = svc.Sessions.SaveArtifact(ctx, id, out); err != nil {
					return err
				}
				report.SavedTo = out
			}

			if format == "json" {
				return printJSON(cmd.OutOrStdout(), report)
			}
			printPrettyFit(cmd.OutOrStdout(), report)
			return nil
		},
	}

	c.Flags().StringSliceVarP(&features, "features", "f", nil, "Feature column names (comma separated, required)")
	c.Flags().StringVarP(&target, "target", "t", "", "Target column name (required)")
	c.Flags().StringVar(&fill, "fill", "", "Missing value policy: drop|mean|median|constant")
	c.Flags().StringVar(&constant, "constant", "", "Fill value for --fill constant")
	c.Flags().StringSliceVar(&fillColumns, "fill-columns", nil, "Restrict mean/median/constant fills to these columns")
	c.Flags().StringVarP(&description, "description", "d", "", "Description saved with the model")
	c.Flags().StringVarP(&out, "out", "o", "", "Save the model to this .gob or .trend path")
	c.Flags().StringVar(&plotPath, "plot", "", "Render the model to this image path")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")

	_ = c.MarkFlagRequired("features")
	_ = c.MarkFlagRequired("target")
	return c
}

func printPrettyFit(w io.Writer, r fitReport) {
	fmt.Fprintf(w, "Loaded:   %s (%d rows, %d columns)\n", r.Load.Path, r.Load.Rows, len(r.Load.Columns))
	if r.Remediated != nil {
		rep := r.Remediated.Report
		switch {
		case rep.NothingToDo:
			fmt.Fprintln(w, "Missing:  none")
		case rep.Policy == dataset.PolicyDropRows:
			fmt.Fprintf(w, "Missing:  dropped %d rows (%d -> %d)\n", rep.RowsBefore-rep.RowsAfter, rep.RowsBefore, rep.RowsAfter)
		default:
			for _, f := range rep.Filled {
				fmt.Fprintf(w, "Missing:  filled %d cells of %s with %s\n", f.Cells, f.Column, regression.FormatNumber(f.Value, dataset.FillPrecision))
			}
		}
	}
	for _, warn := range r.Selection.MissingWarnings {
		fmt.Fprintf(w, "Warning:  feature %s has %d missing values\n", warn.Column, warn.Missing)
	}

	m := r.Fit.Model
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Formula:  %s\n", m.Formula)
	fmt.Fprintf(w, "R²:       %.4f\n", m.R2)
	fmt.Fprintf(w, "MSE:      %.4f\n", m.MSE)
	fmt.Fprintf(w, "Rows:     %d\n", m.Rows)
	fmt.Fprintf(w, "Inputs:   %s\n", strings.Join(r.Selection.Features, ", "))
	for _, notice := range r.Fit.Notices {
		fmt.Fprintf(w, "Notice:   %s\n", notice)
	}

	if r.Plot != nil {
		if r.Plot.Path != "" {
			fmt.Fprintf(w, "Plot:     %s (%s)\n", r.Plot.Path, r.Plot.Visualization)
		} else {
			fmt.Fprintf(w, "Plot:     %s\n", r.Plot.Message)
		}
	}
	if r.SavedTo != "" {
		fmt.Fprintf(w, "Saved:    %s (id %s)\n", r.SavedTo, r.Artifact.ID)
	}
}
