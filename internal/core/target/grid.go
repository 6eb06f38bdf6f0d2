// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target

import (
	"slices"

	"github.com/taibuivan/lettertool/pkg/uuid"
)

// GridRow is one editable row. ID is stable across edits.
type GridRow struct {
	ID     string `json:"id"`
	Values Record `json:"values"`
}

// Grid is the manual edit mode of a target list.
//
// It validates with the same rules as imported tables so both paths accept
// and reject exactly the same rows. A Grid is not safe for concurrent use.
type Grid struct {
	rows []GridRow
}

// NewGrid seeds a grid from validated targets, one row each with a fresh UUIDv7.
func NewGrid(targets []Target) *Grid {
	grid := &Grid{rows: make([]GridRow, 0, len(targets))}
	for _, target := range targets {
		grid.Add(target.Record())
	}
	return grid
}

// GridFromRows restores a grid sent back by a client. Rows without an id get one.
func GridFromRows(rows []GridRow) *Grid {
	grid := &Grid{rows: make([]GridRow, 0, len(rows))}
	for _, row := range rows {
		if row.ID == "" {
			row.ID = uuid.New()
		}
		grid.rows = append(grid.rows, GridRow{ID: row.ID, Values: copyRecord(row.Values)})
	}
	return grid
}

// Rows returns a copy of the rows in display order.
func (g *Grid) Rows() []GridRow {
	rows := make([]GridRow, len(g.rows))
	for i, row := range g.rows {
		rows[i] = GridRow{ID: row.ID, Values: copyRecord(row.Values)}
	}
	return rows
}

// Len returns the number of rows.
func (g *Grid) Len() int {
	return len(g.rows)
}

// Add appends a row and returns its id.
func (g *Grid) Add(values Record) string {
	row := GridRow{ID: uuid.New(), Values: copyRecord(values)}
	g.rows = append(g.rows, row)
	return row.ID
}

// Remove deletes the row with the given id.
func (g *Grid) Remove(id string) bool {
	index := g.indexOf(id)
	if index < 0 {
		return false
	}
	g.rows = slices.Delete(g.rows, index, index+1)
	return true
}

// Set changes one cell. It reports false for unknown rows or fields.
func (g *Grid) Set(id string, field Field, value string) bool {
	if _, ok := ParseField(string(field)); !ok {
		return false
	}

	index := g.indexOf(id)
	if index < 0 {
		return false
	}
	g.rows[index].Values[field] = value
	return true
}

// Validate runs the import rules over the grid. Row numbers are 1-based
// display positions and each issue carries its row id.
func (g *Grid) Validate() Result {
	candidates := make([]candidate, len(g.rows))
	for i, row := range g.rows {
		candidates[i] = candidate{
			number: i + 1,
			id:     row.ID,
			record: row.Values,
			empty:  row.Values.Empty(),
		}
	}
	return evaluate(candidates)
}

func (g *Grid) indexOf(id string) int {
	return slices.IndexFunc(g.rows, func(row GridRow) bool { return row.ID == id })
}

// copyRecord keeps only schema fields.
func copyRecord(values Record) Record {
	record := make(Record, len(Fields))
	for _, field := range Fields {
		if value, found := values[field]; found {
			record[field] = value
		}
	}
	return record
}
