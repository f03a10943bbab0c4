// Package frame provides a small in-memory tabular dataset.
//
// A Frame is an ordered set of equally long, named columns. Each column is
// either Numeric (float64) or Categorical (string). Rows are addressed by
// position and are never reordered by any operation of this package, so a
// derived column added later lines up with the rows it was computed from.
package frame

import (
	"math"
	"strconv"

	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Kind is the declared semantic type of a column.
type Kind int

const (
	// Numeric columns hold float64 values. Integer identifiers are stored
	// as integral floats.
	Numeric Kind = iota
	// Categorical columns hold strings.
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a single named column. Exactly one of the value slices is used,
// depending on Kind.
type Column struct {
	Name string
	Kind Kind

	floats  []float64
	strings []string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.floats)
	}
	return len(c.strings)
}

// Float returns the i-th value of a numeric column. It returns NaN for
// categorical columns.
func (c *Column) Float(i int) float64 {
	if c.Kind != Numeric {
		return math.NaN()
	}
	return c.floats[i]
}

// Floats returns a copy of the values of a numeric column, nil otherwise.
func (c *Column) Floats() []float64 {
	if c.Kind != Numeric {
		return nil
	}
	out := make([]float64, len(c.floats))
	copy(out, c.floats)
	return out
}

// Strings returns a copy of the values of a categorical column, nil otherwise.
func (c *Column) Strings() []string {
	if c.Kind != Categorical {
		return nil
	}
	out := make([]string, len(c.strings))
	copy(out, c.strings)
	return out
}

// Key returns the string form of the i-th value. Categorical values are
// returned verbatim. Numeric values use the shortest decimal representation
// that round-trips, so 7.0 becomes "7" and 0.25 becomes "0.25".
func (c *Column) Key(i int) string {
	if c.Kind == Categorical {
		return c.strings[i]
	}
	return strconv.FormatFloat(c.floats[i], 'f', -1, 64)
}

func (c *Column) clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.floats != nil {
		out.floats = make([]float64, len(c.floats))
		copy(out.floats, c.floats)
	}
	if c.strings != nil {
		out.strings = make([]string, len(c.strings))
		copy(out.strings, c.strings)
	}
	return out
}

func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.floats = make([]float64, len(rows))
		for i, r := range rows {
			out.floats[i] = c.floats[r]
		}
		return out
	}
	out.strings = make([]string, len(rows))
	for i, r := range rows {
		out.strings[i] = c.strings[r]
	}
	return out
}

// Frame is an ordered collection of columns of equal length.
// The zero value is an empty frame ready to use.
type Frame struct {
	columns []*Column
	index   map[string]int
	nrows   int
}

// New returns an empty frame.
func New() *Frame {
	return &Frame{index: make(map[string]int)}
}

// NRows returns the number of rows.
func (f *Frame) NRows() int { return f.nrows }

// NCols returns the number of columns.
func (f *Frame) NCols() int { return len(f.columns) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a column named name exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the column named name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[i], true
}

// Columns returns the columns in order. The returned slice must not be modified.
func (f *Frame) Columns() []*Column { return f.columns }

// AddNumeric adds a numeric column, or replaces the column of the same name
// in place. values is copied.
func (f *Frame) AddNumeric(name string, values []float64) error {
	data := make([]float64, len(values))
	copy(data, values)
	return f.put(&Column{Name: name, Kind: Numeric, floats: data})
}

// AddCategorical adds a categorical column, or replaces the column of the
// same name in place. values is copied.
func (f *Frame) AddCategorical(name string, values []string) error {
	data := make([]string, len(values))
	copy(data, values)
	return f.put(&Column{Name: name, Kind: Categorical, strings: data})
}

func (f *Frame) put(c *Column) error {
	if c.Name == "" {
		return errors.NewInvalidInputError("Frame.Add", "name", "column name must not be empty", c.Name)
	}
	if f.index == nil {
		f.index = make(map[string]int)
	}
	i, exists := f.index[c.Name]
	// a frame whose only column is being replaced may change length
	sole := exists && len(f.columns) == 1
	if len(f.columns) > 0 && !sole && c.Len() != f.nrows {
		return errors.NewInvalidInputError("Frame.Add", c.Name,
			"column length does not match frame rows", c.Len())
	}
	if exists {
		f.columns[i] = c
	} else {
		f.index[c.Name] = len(f.columns)
		f.columns = append(f.columns, c)
	}
	f.nrows = c.Len()
	return nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		columns: make([]*Column, len(f.columns)),
		index:   make(map[string]int, len(f.columns)),
		nrows:   f.nrows,
	}
	for i, c := range f.columns {
		out.columns[i] = c.clone()
		out.index[c.Name] = i
	}
	return out
}

// Select returns a new frame holding copies of the named columns, in the
// given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := New()
	for _, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return nil, errors.NewInvalidInputError("Frame.Select", "columns", "column not found", name)
		}
		if err := out.put(c.clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Rows returns a new frame holding the given rows, in the given order.
func (f *Frame) Rows(rows []int) (*Frame, error) {
	for _, r := range rows {
		if r < 0 || r >= f.nrows {
			return nil, errors.NewInvalidInputError("Frame.Rows", "rows", "row index out of range", r)
		}
	}
	out := &Frame{
		columns: make([]*Column, len(f.columns)),
		index:   make(map[string]int, len(f.columns)),
		nrows:   len(rows),
	}
	for i, c := range f.columns {
		out.columns[i] = c.take(rows)
		out.index[c.Name] = i
	}
	return out, nil
}

// Merge copies every column of other into f, replacing columns of the same
// name in place and appending new ones. Row counts must match unless f has
// no columns.
func (f *Frame) Merge(other *Frame) error {
	if len(f.columns) > 0 && other.NCols() > 0 && other.nrows != f.nrows {
		return errors.NewDimensionError("Frame.Merge", f.nrows, other.nrows, 0)
	}
	for _, c := range other.columns {
		if err := f.put(c.clone()); err != nil {
			return err
		}
	}
	return nil
}

// NumericNames returns the names of the numeric columns in order.
func (f *Frame) NumericNames() []string {
	var names []string
	for _, c := range f.columns {
		if c.Kind == Numeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// ToMatrix copies the named numeric columns into a rows × len(names)
// matrix. With no names, every numeric column is used.
func (f *Frame) ToMatrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		names = f.NumericNames()
	}
	if f.nrows == 0 || len(names) == 0 {
		return nil, errors.NewModelError("Frame.ToMatrix", "empty data", errors.ErrEmptyData)
	}
	out := mat.NewDense(f.nrows, len(names), nil)
	for j, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return nil, errors.NewInvalidInputError("Frame.ToMatrix", "columns", "column not found", name)
		}
		if c.Kind != Numeric {
			return nil, errors.NewInvalidInputError("Frame.ToMatrix", name, "column is not numeric", c.Kind.String())
		}
		out.SetCol(j, c.floats)
	}
	return out, nil
}

// FromMatrix builds a frame from a matrix, naming the columns "0", "1", ...
// in the way a bare array becomes a table.
func FromMatrix(m mat.Matrix) *Frame {
	r, c := m.Dims()
	f := New()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		// lengths always agree
		_ = f.AddNumeric(strconv.Itoa(j), col)
	}
	return f
}
