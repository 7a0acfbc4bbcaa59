package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

// ErrImport wraps every spreadsheet import failure.
var ErrImport = errors.New("import failed")

// ImportResult holds the item lines read from a spreadsheet.
type ImportResult struct {
	Items    []model.ItemSpec
	Warnings []string
}

type columnMapping struct {
	ID, Label, Width, Height, Depth, Weight, Quantity int
}

// headerAliases maps canonical column names to accepted header spellings.
var headerAliases = map[string][]string{
	"id":       {"id", "item", "sku", "code", "ref", "item id", "reference"},
	"label":    {"label", "name", "description", "desc"},
	"width":    {"width", "w", "length", "len"},
	"height":   {"height", "h"},
	"depth":    {"depth", "d"},
	"weight":   {"weight", "kg", "mass", "wt"},
	"quantity": {"quantity", "qty", "count", "pcs", "pieces", "amount"},
}

// positional is used when the first row is not a header:
// id, label, width, height, depth, weight, quantity.
var positional = columnMapping{ID: 0, Label: 1, Width: 2, Height: 3, Depth: 4, Weight: 5, Quantity: 6}

func detectColumns(row []string) (columnMapping, bool) {
	m := columnMapping{-1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"id": &m.ID, "label": &m.Label, "width": &m.Width, "height": &m.Height,
		"depth": &m.Depth, "weight": &m.Weight, "quantity": &m.Quantity,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias && *slots[role] == -1 {
					*slots[role] = i
					isHeader = true
				}
			}
		}
	}
	if !isHeader {
		return positional, false
	}
	return m, true
}

// ImportItems reads item lines from the first sheet of an xlsx workbook.
// Rows with errors are reported together; blank rows are skipped.
func ImportItems(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrImport)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrImport, sheets[0])
	}

	result := &ImportResult{}
	mapping, hasHeader := detectColumns(rows[0])
	start := 0
	if hasHeader {
		start = 1
		var missing []string
		for _, req := range []struct {
			name string
			idx  int
		}{{"width", mapping.Width}, {"height", mapping.Height}, {"depth", mapping.Depth}} {
			if req.idx == -1 {
				missing = append(missing, req.name)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: required columns not found: %s", ErrImport, strings.Join(missing, ", "))
		}
	}

	var rowErrs []error
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		spec, err := parseRow(row, mapping, i+1)
		if err != nil {
			rowErrs = append(rowErrs, err)
			continue
		}
		if spec.ID == "" {
			spec.ID = fmt.Sprintf("row-%d", i+1)
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: missing id, using %s", i+1, spec.ID))
		}
		result.Items = append(result.Items, spec)
	}
	if len(rowErrs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrImport, errors.Join(rowErrs...))
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("%w: no item rows found", ErrImport)
	}
	return result, nil
}

func parseRow(row []string, m columnMapping, rowNum int) (model.ItemSpec, error) {
	spec := model.ItemSpec{
		ID:    cell(row, m.ID),
		Label: cell(row, m.Label),
	}

	fields := []struct {
		name     string
		idx      int
		dst      *uint
		required bool
	}{
		{"width", m.Width, &spec.Width, true},
		{"height", m.Height, &spec.Height, true},
		{"depth", m.Depth, &spec.Depth, true},
		{"weight", m.Weight, &spec.Weight, false},
		{"quantity", m.Quantity, &spec.Quantity, false},
	}
	for _, fld := range fields {
		raw := cell(row, fld.idx)
		if raw == "" {
			if fld.required {
				return spec, fmt.Errorf("row %d: missing %s", rowNum, fld.name)
			}
			continue
		}
		v, err := parseWhole(raw)
		if err != nil {
			return spec, fmt.Errorf("row %d: invalid %s %q", rowNum, fld.name, raw)
		}
		if fld.required && v == 0 {
			return spec, fmt.Errorf("row %d: %s must be positive", rowNum, fld.name)
		}
		*fld.dst = v
	}
	return spec, nil
}

// parseWhole accepts "12" and spreadsheet renderings such as "12.0".
func parseWhole(s string) (uint, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return uint(v), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxUint32 {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	return uint(f), nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteWorkbook writes a Placements sheet and a Summary sheet.
func WriteWorkbook(w io.Writer, alloc *model.Allocation) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", placementsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}

	columns := []interface{}{"Item", "Label", "Level", "X", "Y", "Z", "Width", "Height", "Depth", "Weight", "Rotated"}
	if err := f.SetSheetRow(placementsSheet, "A1", &columns); err != nil {
		return err
	}
	if err := f.SetCellStyle(placementsSheet, "A1", "K1", header); err != nil {
		return err
	}

	levels := levelIndex(alloc)
	for i, p := range alloc.Placements {
		size := p.Size()
		row := []interface{}{
			p.ItemID, p.Label, levels[p.Min.Y],
			p.Min.X, p.Min.Y, p.Min.Z,
			size.Width, size.Height, size.Depth,
			p.Weight, p.Rotated,
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(placementsSheet, addr, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(placementsSheet, "A", "B", 18); err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Allocation", alloc.ID},
		{"Created", alloc.CreatedAt.Format("2006-01-02 15:04:05 MST")},
		{"Profile", alloc.Container.Profile},
		{"Container (W x H x D)", alloc.Container.Box().String()},
		{"Max weight", alloc.Container.MaxWeight},
		{"Items", len(alloc.Placements)},
		{"Levels", len(alloc.Levels())},
		{"Items weight", alloc.ItemsWeight},
		{"Weight capacity left", alloc.WeightCapacityLeft},
		{"Items volume", alloc.ItemsVolume},
		{"Volume capacity left", alloc.VolumeCapacityLeft},
		{"Volume utilization", alloc.VolumeUtilization()},
	}
	for i, kv := range summary {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, addr, &kv); err != nil {
			return err
		}
	}
	pct, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return err
	}
	utilCell, _ := excelize.CoordinatesToCellName(2, len(summary))
	if err := f.SetCellStyle(summarySheet, utilCell, utilCell, pct); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), header); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 24); err != nil {
		return err
	}

	return f.Write(w)
}
