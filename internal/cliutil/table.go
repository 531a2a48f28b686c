// Package cliutil provides shared table-rendering helpers for the
// soeinspect command-line tool.
package cliutil

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer is implemented by types that can render themselves as
// a table.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// PrintTable writes data as a formatted table to w.
func PrintTable(w io.Writer, data TableRenderer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(data.Headers())
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, row := range data.Rows() {
		table.Append(row)
	}
	table.Render()
}

// KVTable is a simple key/value TableRenderer for ad-hoc field dumps.
type KVTable struct {
	rows [][2]string
}

// NewKVTable returns an empty KVTable.
func NewKVTable() *KVTable {
	return &KVTable{}
}

// Add appends a key/value row.
func (t *KVTable) Add(key, value string) {
	t.rows = append(t.rows, [2]string{key, value})
}

func (t *KVTable) Headers() []string { return []string{"Field", "Value"} }

func (t *KVTable) Rows() [][]string {
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rows[i] = []string{r[0], r[1]}
	}
	return rows
}
