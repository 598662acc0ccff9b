package main

import (
	"fmt"
	"sort"
	"time"

	"biblioteca/dbroute"
	"biblioteca/dbroute/gateway"
	"github.com/gosuri/uitable"
	"github.com/juju/errors"
)

const dateLayout = "2006-01-02"

func newTable() *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = true
	return table
}

func cell(v interface{}) interface{} {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return v.Format(dateLayout)
	}
	return v
}

func (c *cli) printRead(res gateway.ReadResult) error {
	if !res.OK() {
		return errors.New(res.Diagnostic)
	}
	if len(res.Rows) == 0 {
		fmt.Fprintf(c.out, "no rows on node %s\n", res.Decision.Node)
		return nil
	}
	table := newTable()
	columns := res.Rows[0].Columns()
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	table.AddRow(header...)
	for _, row := range res.Rows {
		cells := make([]interface{}, len(row))
		for i, f := range row {
			cells[i] = cell(f.Value)
		}
		table.AddRow(cells...)
	}
	fmt.Fprintln(c.out, table)
	fmt.Fprintf(c.out, "%d rows from %s\n", len(res.Rows), res.Decision)
	return nil
}

func (c *cli) printWrite(res gateway.WriteResult) error {
	if !res.OK {
		return errors.New(res.Diagnostic)
	}
	fmt.Fprintf(c.out, "%s (%d rows, %s)\n", res.Diagnostic, res.RowsAffected, res.Decision.Reason)
	return nil
}

func (c *cli) printProbe(results map[string]dbroute.ProbeResult) error {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	table := newTable()
	table.MaxColWidth = 80
	table.AddRow("NODE", "OK", "MESSAGE")
	failed := 0
	for _, name := range names {
		res := results[name]
		if !res.OK {
			failed++
		}
		table.AddRow(name, res.OK, res.Message)
	}
	fmt.Fprintln(c.out, table)
	if failed > 0 {
		return errors.Errorf("%d of %d nodes unreachable", failed, len(names))
	}
	return nil
}

func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.NotValidf("--%s %q (want YYYY-MM-DD)", flag, value)
	}
	return t, nil
}
