package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/chartline/chart"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <chart.yaml>",
	Short: "List the segments, triggers and intervals of a chart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chart.LoadFile(args[0])
		if err != nil {
			return err
		}

		inspect(cmd.OutOrStdout(), c)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func inspect(w io.Writer, c *chart.Chart) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Kind", "Name", "Start", "End", "Dynamic", "Detail"})

	for _, s := range c.Segments {
		detail := ""
		if s.Tween != nil {
			detail = fmt.Sprintf("%s %g -> %g (%s)",
				s.Tween.Target, s.Tween.From, s.Tween.To, s.Tween.Ease)
		}

		tbl.AppendRow(table.Row{"segment", s.Name, s.Start, s.End, s.Dynamic, detail})
	}

	for _, t := range c.Triggers {
		tbl.AppendRow(table.Row{"trigger", t.Name, t.Time, "", t.Dynamic, ""})
	}

	for _, iv := range c.Intervals {
		end := any("")
		limit := "unbounded"

		if iv.Limit > 0 {
			end = iv.Start + iv.Every*int64(iv.Limit-1)
			limit = fmt.Sprintf("%d times", iv.Limit)
		}

		tbl.AppendRow(table.Row{"interval", iv.Name, iv.Start, end, false,
			fmt.Sprintf("every %d, %s", iv.Every, limit)})
	}

	first, last := c.Span()
	tbl.AppendFooter(table.Row{"", fmt.Sprintf("%d entries",
		len(c.Segments)+len(c.Triggers)+len(c.Intervals)), first, last, "", ""})

	tbl.Render()
}
