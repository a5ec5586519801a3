package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Members is an order-preserving JSON object whose values are kept undecoded
type Members = orderedmap.OrderedMap[string, json.RawMessage]

func newMembers() *Members {
	return orderedmap.New[string, json.RawMessage]()
}

// cloneMembers copies m, including the bytes of every value
func cloneMembers(m *Members) *Members {
	out := newMembers()
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, bytes.Clone(pair.Value))
	}
	return out
}

func parseMembers(data []byte) (*Members, error) {
	m := newMembers()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CellKind identifies the shape of a cell value
type CellKind int

const (
	CellScalar CellKind = iota // anything that is not an object or an array
	CellObject                 // {"value": ..., "displayValue": ..., "url": ...}
	CellMulti                  // array of cells
)

func (k CellKind) String() string {
	switch k {
	case CellObject:
		return "Object"
	case CellMulti:
		return "Multi"
	default:
		return "Scalar"
	}
}

// Cell is one value in a result row or search hit.
// Object members keep their original order and encoding.
type Cell struct {
	kind  CellKind
	raw   json.RawMessage
	props *Members
	items []Cell
}

// ParseCell classifies data by shape. Invalid JSON objects and arrays degrade to scalars.
func ParseCell(data []byte) Cell {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Cell{kind: CellScalar, raw: json.RawMessage("null")}
	}

	switch trimmed[0] {
	case '{':
		props, err := parseMembers(trimmed)
		if err == nil {
			return Cell{kind: CellObject, props: props}
		}
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err == nil {
			items := make([]Cell, len(elems))
			for i, e := range elems {
				items[i] = ParseCell(e)
			}
			return Cell{kind: CellMulti, items: items}
		}
	}
	return Cell{kind: CellScalar, raw: bytes.Clone(trimmed)}
}

// NewCell builds a cell from any JSON-marshalable value
func NewCell(v any) (Cell, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Cell{}, fmt.Errorf("marshal cell: %w", err)
	}
	return ParseCell(data), nil
}

// NewMultiCell builds a multi-value cell from items, in order
func NewMultiCell(items []Cell) Cell {
	if items == nil {
		items = []Cell{}
	}
	return Cell{kind: CellMulti, items: items}
}

// Kind returns the cell shape
func (c Cell) Kind() CellKind {
	return c.kind
}

// Items returns the elements of a multi-value cell
func (c Cell) Items() []Cell {
	return c.items
}

// Has reports whether an object cell carries key
func (c Cell) Has(key string) bool {
	if c.kind != CellObject || c.props == nil {
		return false
	}
	_, ok := c.props.Get(key)
	return ok
}

// Raw returns the undecoded member key of an object cell
func (c Cell) Raw(key string) (json.RawMessage, bool) {
	if c.kind != CellObject || c.props == nil {
		return nil, false
	}
	return c.props.Get(key)
}

// Keys returns object member names in document order
func (c Cell) Keys() []string {
	if c.kind != CellObject || c.props == nil {
		return nil
	}
	keys := make([]string, 0, c.props.Len())
	for pair := c.props.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// String returns member key rendered as a string. Numbers and booleans are
// returned in their JSON spelling; null, objects and arrays are reported missing.
func (c Cell) String(key string) (string, bool) {
	raw, ok := c.Raw(key)
	if !ok {
		return "", false
	}
	return scalarString(raw)
}

// Child returns member key as a cell
func (c Cell) Child(key string) (Cell, bool) {
	raw, ok := c.Raw(key)
	if !ok {
		return Cell{}, false
	}
	return ParseCell(raw), true
}

// Path walks nested object members, e.g. Path("sampleSet", "name")
func (c Cell) Path(keys ...string) (Cell, bool) {
	cur := c
	for _, k := range keys {
		next, ok := cur.Child(k)
		if !ok {
			return Cell{}, false
		}
		cur = next
	}
	return cur, true
}

// Scalar returns the string form of a scalar cell
func (c Cell) Scalar() (string, bool) {
	if c.kind != CellScalar {
		return "", false
	}
	return scalarString(c.raw)
}

// URL returns the "url" member of an object cell
func (c Cell) URL() (string, bool) {
	return c.String("url")
}

// HasURL reports whether the cell is an object carrying a string url
func (c Cell) HasURL() bool {
	_, ok := c.URL()
	return ok
}

// Value returns the "value" member rendered as a string
func (c Cell) Value() (string, bool) {
	return c.String("value")
}

// DisplayValue returns the "displayValue" member rendered as a string
func (c Cell) DisplayValue() (string, bool) {
	return c.String("displayValue")
}

// WithURL returns a copy of an object cell with its url replaced.
// Cells of other shapes are returned unchanged.
func (c Cell) WithURL(u string) Cell {
	if c.kind != CellObject {
		return c
	}
	out := c.Clone()
	encoded, err := json.Marshal(u)
	if err != nil {
		return out
	}
	out.props.Set("url", encoded)
	return out
}

// Clone returns a deep copy sharing no memory with c
func (c Cell) Clone() Cell {
	switch c.kind {
	case CellObject:
		return Cell{kind: CellObject, props: cloneMembers(c.props)}
	case CellMulti:
		items := make([]Cell, len(c.items))
		for i, it := range c.items {
			items[i] = it.Clone()
		}
		return Cell{kind: CellMulti, items: items}
	default:
		return Cell{kind: CellScalar, raw: bytes.Clone(c.raw)}
	}
}

// MarshalJSON implements json.Marshaler
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellObject:
		if c.props == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(c.props)
	case CellMulti:
		if c.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.items)
	default:
		if len(c.raw) == 0 {
			return []byte("null"), nil
		}
		return slices.Clone(c.raw), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Cell) UnmarshalJSON(data []byte) error {
	*c = ParseCell(data)
	return nil
}

func scalarString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	case 'n':
		return "", false
	case 't', 'f':
		return string(trimmed), true
	default:
		// numbers keep their literal spelling so large ids survive
		if _, err := strconv.ParseFloat(string(trimmed), 64); err != nil {
			return "", false
		}
		return string(trimmed), true
	}
}
