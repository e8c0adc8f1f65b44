package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/okian/podium/internal/domain/types"
)

// SheetName is the worksheet holding the ranking.
const SheetName = "Leaderboard"

var podiumColors = []string{"f5c518", "c0c0c0", "cd7f32"} //nolint:gochecknoglobals // gold, silver, bronze

// XLSX builds a workbook with the full ranking: header, podium rows in
// medal colours, then every other entry. Extra record columns follow the
// fixed ones in name order.
func XLSX(board types.Board) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1c399e"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Size: 12, Color: "ffffff", Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: header style: %w", err)
	}
	medalStyles := make([]int, len(podiumColors))
	for i, color := range podiumColors {
		medalStyles[i], err = f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Font: &excelize.Font{Bold: true},
		})
		if err != nil {
			return nil, fmt.Errorf("xlsx: podium style: %w", err)
		}
	}
	unparsedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"f71e1e"}},
		Font: &excelize.Font{Italic: true, Color: "ffffff"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: unparsed style: %w", err)
	}

	extras := extraColumns(board.Entries)
	header := append([]any{"Pos", "Jugador", "Tiempo", "ms"}, toAny(extras)...)
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: header style: %w", err)
	}

	for i, e := range board.Entries {
		row := i + 2
		values := []any{e.Position, e.Player, e.Time, e.DurationMS}
		for _, name := range extras {
			values = append(values, e.Fields[name])
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return nil, fmt.Errorf("xlsx: row %d: %w", row, err)
		}

		style := -1
		switch {
		case e.Unparsed:
			style = unparsedStyle
		case i < len(board.Podium) && i < len(medalStyles):
			style = medalStyles[i]
		}
		if style >= 0 {
			end, _ := excelize.CoordinatesToCellName(len(header), row)
			if err := f.SetCellStyle(SheetName, start, end, style); err != nil {
				return nil, fmt.Errorf("xlsx: row %d style: %w", row, err)
			}
		}
	}

	_ = f.SetColWidth(SheetName, "B", "B", 24)
	_ = f.SetColWidth(SheetName, "C", "D", 12)
	return f, nil
}

// WriteXLSX builds the workbook and writes it to w.
func WriteXLSX(w io.Writer, board types.Board) error {
	f, err := XLSX(board)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func extraColumns(entries []types.Entry) []string {
	var names []string
	seen := make(map[string]bool)
	for _, e := range entries {
		for name := range e.Fields {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	return names
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
