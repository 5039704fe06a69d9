package compressor

import "encoding/binary"

// UniqueEntriesTable keeps each distinct row once. RowNums maps an original row to its unique row.
type UniqueEntriesTable struct {
	UniqueEntries    []int `json:"unique_entries"`
	RowNums          []int `json:"row_nums"`
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
}

func NewUniqueEntriesTable() *UniqueEntriesTable {
	return &UniqueEntriesTable{}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if err := outOfRange(tab, row, col); err != nil {
		return 0, err
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *UniqueEntriesTable) EntryCount() int {
	return len(tab.UniqueEntries) + len(tab.RowNums)
}

func (tab *UniqueEntriesTable) Compress(orig *OriginalTable) error {
	var uniqueEntries []int
	rowNums := make([]int, orig.rowCount)
	key2RowNum := map[string]int{}
	for r := 0; r < orig.rowCount; r++ {
		row := orig.row(r)
		key := rowKey(row)
		rowNum, ok := key2RowNum[key]
		if !ok {
			rowNum = len(key2RowNum)
			key2RowNum[key] = rowNum
			uniqueEntries = append(uniqueEntries, row...)
		}
		rowNums[r] = rowNum
	}

	tab.UniqueEntries = uniqueEntries
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	traceRatio(tab)

	return nil
}

// rowKey encodes a row so that two rows have the same key iff they have the same entries.
// Entries are signed, so they are encoded as zig-zag varints.
func rowKey(row []int) string {
	buf := make([]byte, 0, len(row)*2)
	for _, e := range row {
		buf = binary.AppendVarint(buf, int64(e))
	}
	return string(buf)
}
