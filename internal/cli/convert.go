package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/jsonstudio/internal/core"
	"github.com/agenthands/jsonstudio/internal/core/transform"
	"github.com/agenthands/jsonstudio/internal/core/value"
)

func newConvertCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert a document to YAML or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := transform.ParseFormat(to)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			res := core.NewStudio().Transform(cmd.Context(), text, format)
			if res.Error != "" {
				return errors.New(res.Error)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), res.Content)
			if !strings.HasSuffix(res.Content, "\n") {
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "yaml", "target format (yaml|csv)")
	_ = cmd.RegisterFlagCompletionFunc("to", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(transform.Formats))
		for i, f := range transform.Formats {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query FILE PATH",
		Short: "Evaluate a JSONPath expression",
		Long: `Evaluate a JSONPath expression such as $.store.book[?(@.price < 10)].title.
A path that can only select one value prints that value; wildcards,
slices, unions, filters and recursive descent print an array.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			res := core.NewStudio().Query(text, args[1])
			if res.Error != "" {
				return errors.New(res.Error)
			}
			out, _ := value.Format(string(value.Marshal(res.Data)), 2)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newFmtCmd() *cobra.Command {
	var (
		indent int
		minify bool
	)

	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Re-indent or minify a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if indent < 0 || indent > 10 {
				return fmt.Errorf("indent must be between 0 and 10, got %d", indent)
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			s := core.NewStudio()
			var out string
			if minify {
				out, err = s.Minify(text)
			} else {
				out, err = s.Format(text, indent)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&indent, "indent", 2, "spaces per level")
	cmd.Flags().BoolVar(&minify, "minify", false, "strip all insignificant whitespace")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check that a document is well-formed JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			res := core.NewStudio().Validate(text)
			if !res.Valid {
				return errors.New(res.Error)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "valid (%d bytes)\n", res.Size)
			return nil
		},
	}
}
