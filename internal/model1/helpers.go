package model1

import (
	"sort"
	"strings"

	"github.com/fvbommel/sortorder"
)

// Less returns true if v1 sorts before v2, falling back to ids on ties.
func Less(isDuration bool, id1, id2, v1, v2 string) bool {
	if v1 == v2 {
		return sortorder.NaturalLess(id1, id2)
	}
	if isDuration {
		return durationToSeconds(v1) <= durationToSeconds(v2)
	}
	return sortorder.NaturalLess(strings.ToLower(v1), strings.ToLower(v2))
}

// SortRows sorts rows in place on column col.
func SortRows(h Header, rr Rows, col int, asc bool) {
	if col < 0 || col >= len(h) {
		return
	}
	isDuration := h.IsTimeCol(col)
	sort.SliceStable(rr, func(i, j int) bool {
		if col >= len(rr[i].Fields) || col >= len(rr[j].Fields) {
			return false
		}
		less := Less(isDuration, rr[i].ID, rr[j].ID, rr[i].Fields[col], rr[j].Fields[col])
		if asc {
			return less
		}
		return !less
	})
}

func durationToSeconds(duration string) int64 {
	if duration == "" || duration == NAValue {
		return 0
	}
	num := make([]rune, 0, 5)
	var n, m int64
	for _, r := range duration {
		switch r {
		case 'y':
			m = 365 * 24 * 60 * 60
		case 'd':
			m = 24 * 60 * 60
		case 'h':
			m = 60 * 60
		case 'm':
			m = 60
		case 's':
			m = 1
		default:
			if r < '0' || r > '9' {
				return 0
			}
			num = append(num, r)
			continue
		}
		n, num = n+runesToNum(num)*m, num[:0]
	}
	return n
}

func runesToNum(rr []rune) int64 {
	var r int64
	var m int64 = 1
	for i := len(rr) - 1; i >= 0; i-- {
		v := int64(rr[i] - '0')
		r += v * m
		m *= 10
	}
	return r
}

// NAValue is shown for unknown cells.
const NAValue = "n/a"
