package cli

import (
	"fmt"

	"github.com/kolah/swagcheck/internal/report"
	"github.com/spf13/cobra"
)

func TemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Build the API template and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd)
			if err != nil {
				return err
			}

			renderer, err := report.NewRenderer(s.cfg.Templates.Dir, s.cfg.Output.Color)
			if err != nil {
				return err
			}

			if err := renderer.Render(cmd.OutOrStdout(), s.cfg.Output.Format, report.Build(s.doc, s.api)); err != nil {
				return fmt.Errorf("rendering report: %w", err)
			}
			return nil
		},
	}
}

func OperationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List every templated operation in path then verb order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd)
			if err != nil {
				return err
			}

			renderer, err := report.NewRenderer(s.cfg.Templates.Dir, s.cfg.Output.Color)
			if err != nil {
				return err
			}

			for op := range s.api.Operations() {
				fmt.Fprintln(cmd.OutOrStdout(), renderer.OperationLine(op))
			}
			s.logger.Debug("listed operations", "skips", len(s.api.Skips()))
			return nil
		},
	}
}
