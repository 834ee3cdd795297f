package ui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/userdeck/userdeck/internal/dao"
)

const (
	// PageRange is the number of pages shown around the current one.
	PageRange = 3

	// PageMargin is the number of pages always shown at each end.
	PageMargin = 1

	breakLabel = "…"
)

// PageItem is one entry of the pager. Break items stand for elided pages.
type PageItem struct {
	Index   int
	Break   bool
	Current bool
}

// Page returns the 1-based page number.
func (p PageItem) Page() int {
	return p.Index + 1
}

// PageItems lays out the pager entries for pageCount pages with the
// zero-based selected page. Elided runs collapse into one break, and a break
// hiding a single page is replaced by that page.
func PageItems(pageCount, selected, pageRange, margin int) []PageItem {
	if pageCount <= 0 {
		return nil
	}
	if selected < 0 {
		selected = 0
	}
	if selected > pageCount-1 {
		selected = pageCount - 1
	}

	if pageCount <= pageRange {
		out := make([]PageItem, 0, pageCount)
		for i := 0; i < pageCount; i++ {
			out = append(out, PageItem{Index: i, Current: i == selected})
		}
		return out
	}

	half := float64(pageRange) / 2
	left, right := half, float64(pageRange)-half
	sel := float64(selected)
	switch {
	case sel > float64(pageCount)-half:
		right = float64(pageCount - selected)
		left = float64(pageRange) - right
	case sel < half:
		left = sel
		right = float64(pageRange) - left
	}
	adjRight := right
	if selected == 0 && pageRange > 1 {
		adjRight--
	}

	items := make([]PageItem, 0, pageRange+2*margin+2)
	for i := 0; i < pageCount; i++ {
		page := i + 1
		idx := float64(i)
		if page <= margin || page > pageCount-margin || (idx >= sel-left && idx <= sel+adjRight) {
			items = append(items, PageItem{Index: i, Current: i == selected})
			continue
		}
		if len(items) > 0 && !items[len(items)-1].Break && (pageRange > 0 || margin > 0) {
			items = append(items, PageItem{Index: i, Break: true})
		}
	}

	for i := range items {
		if !items[i].Break || i == 0 || i == len(items)-1 {
			continue
		}
		prev, next := items[i-1], items[i+1]
		if !prev.Break && !next.Break && next.Index-prev.Index <= 2 {
			items[i].Break = false
		}
	}

	return items
}

// Pager renders the page selector.
type Pager struct {
	*tview.TextView

	pagination dao.Pagination
}

// NewPager returns a new pager.
func NewPager() *Pager {
	p := Pager{TextView: tview.NewTextView()}
	p.SetDynamicColors(true)
	p.SetTextAlign(tview.AlignCenter)
	p.SetBackgroundColor(tcell.ColorDefault)
	p.Update(dao.Pagination{Page: 1, Limit: dao.DefaultLimit})

	return &p
}

// Update redraws the pager for p.
func (p *Pager) Update(pg dao.Pagination) {
	p.pagination = pg
	p.SetText(FormatPager(pg))
}

// Pagination returns the pagination last rendered.
func (p *Pager) Pagination() dao.Pagination {
	return p.pagination
}

// FormatPager returns the pager markup for pg.
func FormatPager(pg dao.Pagination) string {
	count, current := pg.PageCount(), pg.ForcePage()

	var b strings.Builder
	b.WriteString(arrow("‹", current > 0))
	for _, it := range PageItems(count, current, PageRange, PageMargin) {
		switch {
		case it.Break:
			fmt.Fprintf(&b, " [gray::]%s[-::]", breakLabel)
		case it.Current:
			fmt.Fprintf(&b, " [black:aqua:b] %d [-:-:-]", it.Page())
		default:
			fmt.Fprintf(&b, " %d", it.Page())
		}
	}
	b.WriteString(" " + arrow("›", current < count-1))

	return b.String()
}

func arrow(s string, enabled bool) string {
	if enabled {
		return "[yellow::b]" + s + "[-::-]"
	}
	return "[gray::d]" + s + "[-::-]"
}
