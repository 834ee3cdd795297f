package model1

import (
	"fmt"
	"reflect"
)

const ageCol = "AGE"

// Attrs represents column attributes.
type Attrs struct {
	Align int  // tview alignment
	Wide  bool // Hidden in narrow view
	Time  bool // Age column
	Width int  // Preferred width, 0 means auto
}

// HeaderColumn represents a table header column.
type HeaderColumn struct {
	Name string
	Attrs
}

func (h HeaderColumn) String() string {
	return fmt.Sprintf("%s [%d::%t::%t]", h.Name, h.Align, h.Wide, h.Time)
}

// Header represents a table header.
type Header []HeaderColumn

func (h Header) Clone() Header {
	he := make(Header, len(h))
	copy(he, h)
	return he
}

func (h Header) Diff(header Header) bool {
	if len(h) != len(header) {
		return true
	}
	return !reflect.DeepEqual(h, header)
}

func (h Header) IndexOf(colName string, includeWide bool) (int, bool) {
	for i, c := range h {
		if c.Wide && !includeWide {
			continue
		}
		if c.Name == colName {
			return i, true
		}
	}
	return -1, false
}

func (h Header) HasAge() bool {
	_, ok := h.IndexOf(ageCol, true)
	return ok
}

func (h Header) IsTimeCol(col int) bool {
	if col < 0 || col >= len(h) {
		return false
	}
	return h[col].Time
}

// ColumnNames returns the visible column names.
func (h Header) ColumnNames(wide bool) []string {
	if len(h) == 0 {
		return nil
	}
	cc := make([]string, 0, len(h))
	for _, c := range h {
		if !wide && c.Wide {
			continue
		}
		cc = append(cc, c.Name)
	}
	return cc
}

// Columns returns the indexes of the visible columns.
func (h Header) Columns(wide bool) []int {
	cc := make([]int, 0, len(h))
	for i, c := range h {
		if !wide && c.Wide {
			continue
		}
		cc = append(cc, i)
	}
	return cc
}
