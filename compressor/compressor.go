package compressor

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.compressor'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.compressor")
}

// OriginalTable is a row-major table to be compressed. A compressor never modifies its entries.
type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *OriginalTable) row(r int) []int {
	return t.entries[r*t.colCount : (r+1)*t.colCount]
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)

	// EntryCount returns the number of integers the compressed table holds.
	EntryCount() int
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
)

func outOfRange(c Compressor, row, col int) error {
	rowCount, colCount := c.OriginalTableSize()
	if row < 0 || row >= rowCount || col < 0 || col >= colCount {
		return fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return nil
}

func traceRatio(c Compressor) {
	rowCount, colCount := c.OriginalTableSize()
	tracer().Debugf("%T: %v entries -> %v entries", c, rowCount*colCount, c.EntryCount())
}
