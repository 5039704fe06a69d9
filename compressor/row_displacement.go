package compressor

import "sort"

// ForbiddenValue marks a slot of Bounds no row owns.
const ForbiddenValue = -1

// RowDisplacementTable overlays sparse rows on a single array. A row r owns Entries[RowDisplacement[r]+c]
// when Bounds at the same index equals r; any other slot reads as EmptyValue.
type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if err := outOfRange(tab, row, col); err != nil {
		return tab.EmptyValue, err
	}
	i := tab.RowDisplacement[row] + col
	if i >= len(tab.Bounds) || tab.Bounds[i] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[i], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *RowDisplacementTable) EntryCount() int {
	return len(tab.Entries) + len(tab.Bounds) + len(tab.RowDisplacement)
}

type sparseRow struct {
	num  int
	cols []int
}

func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	rows := make([]*sparseRow, 0, orig.rowCount)
	for r := 0; r < orig.rowCount; r++ {
		row := &sparseRow{
			num: r,
		}
		for c, v := range orig.row(r) {
			if v != tab.EmptyValue {
				row.cols = append(row.cols, c)
			}
		}
		rows = append(rows, row)
	}
	// Placing dense rows first leaves the gaps for sparse rows.
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].cols) > len(rows[j].cols)
	})

	size := len(orig.entries)
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := 0; i < size; i++ {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}
	rowDisplacement := make([]int, orig.rowCount)

	bottom := orig.colCount
	next := 0
	for _, row := range rows {
		if len(row.cols) == 0 {
			continue
		}

		d := next
		for !fits(bounds, d, row.cols) {
			d++
		}
		rowDisplacement[row.num] = d
		for _, c := range row.cols {
			entries[d+c] = orig.entries[row.num*orig.colCount+c]
			bounds[d+c] = row.num
		}
		if d+orig.colCount > bottom {
			bottom = d + orig.colCount
		}
		next = d + 1
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.RowDisplacement = rowDisplacement
	traceRatio(tab)

	return nil
}

func fits(bounds []int, d int, cols []int) bool {
	for _, c := range cols {
		if bounds[d+c] != ForbiddenValue {
			return false
		}
	}
	return true
}
