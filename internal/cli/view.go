package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/agenthands/jsonstudio/internal/core"
	"github.com/agenthands/jsonstudio/internal/core/model"
	"github.com/agenthands/jsonstudio/internal/core/value"
)

func newTreeCmd() *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print a document as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			root, err := core.NewStudio().Tree(text)
			if err != nil {
				return err
			}
			renderTree(cmd.OutOrStdout(), root, maxDepth)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", -1, "deepest level to print (-1 for all)")
	return cmd
}

func renderTree(w io.Writer, root *model.TreeNode, maxDepth int) {
	l := list.NewWriter()
	l.SetOutputMirror(w)
	l.SetStyle(list.StyleConnectedLight)
	appendNode(l, root, maxDepth)
	l.Render()
}

func appendNode(l list.Writer, n *model.TreeNode, maxDepth int) {
	l.AppendItem(nodeLabel(n))
	if len(n.Children) == 0 || (maxDepth >= 0 && n.Depth >= maxDepth) {
		return
	}
	l.Indent()
	for _, child := range n.Children {
		appendNode(l, child, maxDepth)
	}
	l.UnIndent()
}

func nodeLabel(n *model.TreeNode) string {
	switch v := n.Value.(type) {
	case *value.Object:
		return fmt.Sprintf("%s {%d}", n.Key, v.Len())
	case value.Array:
		return fmt.Sprintf("%s [%d]", n.Key, len(v))
	}
	return n.Key + ": " + string(value.Marshal(n.Value))
}

func newTableCmd() *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "table FILE",
		Short: "Print the tabular views of a document",
		Long: `Print a document as tables. The root collection becomes the "root"
section; for an object every property gets its own "prop-KEY" section.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := core.NewStudio().Table(text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if data == nil {
				_, _ = fmt.Fprintln(out, "(no tabular data)")
				return nil
			}

			sections := data.Sections
			if section != "" {
				s := data.Section(section)
				if s == nil {
					return fmt.Errorf("no section %q", section)
				}
				sections = []model.TableSection{*s}
			}
			for _, s := range sections {
				renderSection(out, s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "print only the section with this id")
	return cmd
}

func renderSection(w io.Writer, s model.TableSection) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(s.Title)

	header := make(table.Row, len(s.Columns))
	for i, col := range s.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range s.Rows {
		row := make(table.Row, len(s.Columns))
		for i, col := range s.Columns {
			if v, ok := r.Get(col); ok {
				row[i] = cellText(v)
			}
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%s)\n", pluralRows(len(s.Rows)))
}

func cellText(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return string(s)
	}
	return string(value.Marshal(v))
}

func pluralRows(n int) string {
	if n == 1 {
		return "1 row"
	}
	return strconv.Itoa(n) + " rows"
}
