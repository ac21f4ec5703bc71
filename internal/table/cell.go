package table

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

// Kind identifies the scalar type held by a Cell
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindBool
	KindText
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	default:
		return "empty"
	}
}

// Cell is a single typed spreadsheet value. The zero value is an empty cell.
type Cell struct {
	Kind Kind
	Num  float64
	Bool bool
	Str  string
}

// EmptyCell returns a blank cell
func EmptyCell() Cell {
	return Cell{}
}

// NumberCell returns a numeric cell
func NumberCell(f float64) Cell {
	return Cell{Kind: KindNumber, Num: f}
}

// BoolCell returns a boolean cell
func BoolCell(b bool) Cell {
	return Cell{Kind: KindBool, Bool: b}
}

// TextCell returns a text cell. An empty string yields an empty cell.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: KindText, Str: s}
}

// CellOf converts a plain Go value into a Cell. Integers and floats become
// numbers, bools become booleans, nil and "" become empty, and anything else
// is stored as its string form.
func CellOf(v interface{}) Cell {
	switch val := v.(type) {
	case nil:
		return EmptyCell()
	case Cell:
		return val
	case string:
		return TextCell(val)
	case bool:
		return BoolCell(val)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return NumberCell(cast.ToFloat64(val))
	default:
		return TextCell(cast.ToString(val))
	}
}

// IsEmpty reports whether the cell holds no value
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty
}

// String returns the display text of the cell: numbers in shortest decimal
// form, booleans as true/false, empty cells as "".
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return cast.ToString(c.Num)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	case KindText:
		return c.Str
	default:
		return ""
	}
}

// Value returns the cell as a native Go value (float64, bool, string or nil)
func (c Cell) Value() interface{} {
	switch c.Kind {
	case KindNumber:
		return c.Num
	case KindBool:
		return c.Bool
	case KindText:
		return c.Str
	default:
		return nil
	}
}

// MarshalJSON encodes the cell as its native JSON scalar
func (c Cell) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(c.Value())
}
