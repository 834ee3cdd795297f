package model1

// Fields represents the cells of a row.
type Fields []string

// Customize copies the selected columns into out.
func (f Fields) Customize(cols []int, out Fields) {
	for i, c := range cols {
		if c < 0 || c >= len(f) || i >= len(out) {
			continue
		}
		out[i] = f[c]
	}
}

// Clone returns a copy of the fields.
func (f Fields) Clone() Fields {
	cp := make(Fields, len(f))
	copy(cp, f)
	return cp
}

// Row represents a collection of columns keyed by a stable id.
type Row struct {
	ID     string
	Fields Fields
}

func NewRow(size int) Row {
	return Row{Fields: make(Fields, size)}
}

func (r Row) Customize(cols []int) Row {
	out := NewRow(len(cols))
	r.Fields.Customize(cols, out.Fields)
	out.ID = r.ID
	return out
}

func (r Row) Clone() Row {
	return Row{
		ID:     r.ID,
		Fields: r.Fields.Clone(),
	}
}

func (r Row) Len() int {
	return len(r.Fields)
}

// Rows represents a collection of rows.
type Rows []Row

func (r Rows) Clone() Rows {
	out := make(Rows, len(r))
	for i, row := range r {
		out[i] = row.Clone()
	}
	return out
}

// Renderer turns a resource into table rows.
type Renderer interface {
	Header() Header
	Render(o any, idx int, row *Row) error
}
