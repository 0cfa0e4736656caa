package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subpipe/internal/history"
)

func renderRunTable(runs []*history.Run, interactive bool) string {
	tw := table.NewWriter()
	if interactive {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"When", "Mode", "Source", "Status", "Result"})
	for _, row := range historyRows(runs) {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 48, AlignHeader: text.AlignLeft},
		{Number: 5, WidthMax: 56, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
