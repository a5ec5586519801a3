package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Row maps field keys to cells, preserving the server's key order.
// Entries of the rows array that are not objects (null, numbers, strings)
// are kept verbatim and have no cells.
type Row struct {
	cells *orderedmap.OrderedMap[string, Cell]
	raw   json.RawMessage
}

// NewRow creates an empty row
func NewRow() Row {
	return Row{cells: orderedmap.New[string, Cell]()}
}

// IsRaw reports whether the row was not a JSON object
func (r Row) IsRaw() bool {
	return r.raw != nil
}

// Clone returns a copy sharing no mutable state with r
func (r Row) Clone() Row {
	if r.raw != nil {
		return Row{raw: append(json.RawMessage(nil), r.raw...)}
	}
	out := NewRow()
	for _, key := range r.Keys() {
		c, _ := r.Get(key)
		out.cells.Set(key, c.Clone())
	}
	return out
}

// Len returns the number of fields in the row
func (r Row) Len() int {
	if r.cells == nil {
		return 0
	}
	return r.cells.Len()
}

// Keys returns the field keys in document order
func (r Row) Keys() []string {
	if r.cells == nil {
		return nil
	}
	keys := make([]string, 0, r.cells.Len())
	for pair := r.cells.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Get returns the cell for a field key
func (r Row) Get(key string) (Cell, bool) {
	if r.cells == nil {
		return Cell{}, false
	}
	return r.cells.Get(key)
}

// Set stores a cell under key, keeping the key's position if it already exists
func (r *Row) Set(key string, c Cell) {
	r.raw = nil
	if r.cells == nil {
		r.cells = orderedmap.New[string, Cell]()
	}
	r.cells.Set(key, c)
}

// MarshalJSON implements json.Marshaler
func (r Row) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	if r.cells == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.cells)
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Row) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*r = Row{raw: append(json.RawMessage(nil), data...)}
		return nil
	}
	members, err := parseMembers(data)
	if err != nil {
		return fmt.Errorf("row: %w", err)
	}
	row := NewRow()
	for pair := members.Oldest(); pair != nil; pair = pair.Next() {
		row.cells.Set(pair.Key, ParseCell(pair.Value))
	}
	*r = row
	return nil
}

// Lookup describes the foreign-key target of a column
type Lookup struct {
	SchemaName    string `json:"schemaName"`
	QueryName     string `json:"queryName"`
	KeyColumn     string `json:"keyColumn,omitempty"`
	DisplayColumn string `json:"displayColumn,omitempty"`
}

// UnmarshalJSON accepts schemaName as a string or as an array of path parts
func (l *Lookup) UnmarshalJSON(data []byte) error {
	var wire struct {
		SchemaName    SchemaKey `json:"schemaName"`
		QueryName     string    `json:"queryName"`
		KeyColumn     string    `json:"keyColumn"`
		DisplayColumn string    `json:"displayColumn"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*l = Lookup{
		SchemaName:    wire.SchemaName.String(),
		QueryName:     wire.QueryName,
		KeyColumn:     wire.KeyColumn,
		DisplayColumn: wire.DisplayColumn,
	}
	return nil
}

// Field is the column metadata for one field key
type Field struct {
	FieldKey string  `json:"fieldKey"`
	Name     string  `json:"name,omitempty"`
	Lookup   *Lookup `json:"lookup,omitempty"`
}

// HasLookup reports whether the column points at another query
func (f *Field) HasLookup() bool {
	return f != nil && f.Lookup != nil && f.Lookup.SchemaName != ""
}

// UnmarshalJSON accepts fieldKey as a string, an array of parts or an object with a name
func (f *Field) UnmarshalJSON(data []byte) error {
	var wire struct {
		FieldKey     json.RawMessage `json:"fieldKey"`
		FieldKeyPath string          `json:"fieldKeyPath"`
		Name         string          `json:"name"`
		Lookup       *Lookup         `json:"lookup"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	key := wire.FieldKeyPath
	if key == "" {
		key = decodeFieldKey(wire.FieldKey)
	}
	if key == "" {
		key = wire.Name
	}

	*f = Field{FieldKey: key, Name: wire.Name, Lookup: wire.Lookup}
	return nil
}

func decodeFieldKey(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	case '[':
		var parts []string
		if json.Unmarshal(raw, &parts) == nil {
			return strings.Join(parts, "/")
		}
	case '{':
		var obj struct {
			Name string `json:"name"`
		}
		if json.Unmarshal(raw, &obj) == nil {
			return obj.Name
		}
	}
	return ""
}

// SchemaKey is a schema name split into its dotted parts
type SchemaKey []string

// String joins the parts with "."
func (k SchemaKey) String() string {
	return strings.Join(k, ".")
}

// UnmarshalJSON accepts "a.b" or ["a", "b"]
func (k *SchemaKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == 'n' {
		*k = nil
		return nil
	}
	if data[0] == '[' {
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		*k = parts
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*k = nil
		return nil
	}
	*k = strings.Split(s, ".")
	return nil
}

// SelectRowsDocument is the server's tabular query result
type SelectRowsDocument struct {
	SchemaName SchemaKey
	QueryName  string
	Fields     []Field
	Rows       []Row

	members *Members
}

// Schema returns the dotted schema name
func (d *SelectRowsDocument) Schema() string {
	return d.SchemaName.String()
}

// Field returns column metadata for a field key. Exact matches win over
// case-insensitive ones.
func (d *SelectRowsDocument) Field(key string) *Field {
	var folded *Field
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.FieldKey == key {
			return f
		}
		if folded == nil && strings.EqualFold(f.FieldKey, key) {
			folded = f
		}
	}
	return folded
}

// WithRows returns a deep copy of d carrying rows instead of d.Rows
func (d *SelectRowsDocument) WithRows(rows []Row) *SelectRowsDocument {
	fields := make([]Field, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = f
		if f.Lookup != nil {
			lk := *f.Lookup
			fields[i].Lookup = &lk
		}
	}
	var members *Members
	if d.members != nil {
		members = cloneMembers(d.members)
	}
	return &SelectRowsDocument{
		SchemaName: append(SchemaKey(nil), d.SchemaName...),
		QueryName:  d.QueryName,
		Fields:     fields,
		Rows:       rows,
		members:    members,
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (d *SelectRowsDocument) UnmarshalJSON(data []byte) error {
	members, err := parseMembers(data)
	if err != nil {
		return fmt.Errorf("select rows document: %w", err)
	}

	doc := SelectRowsDocument{members: members}

	if raw, ok := members.Get("schemaName"); ok {
		if err := json.Unmarshal(raw, &doc.SchemaName); err != nil {
			return fmt.Errorf("schemaName: %w", err)
		}
	}
	if raw, ok := members.Get("queryName"); ok {
		if err := json.Unmarshal(raw, &doc.QueryName); err != nil {
			return fmt.Errorf("queryName: %w", err)
		}
	}
	if raw, ok := members.Get("metaData"); ok && !isNull(raw) {
		var meta struct {
			Fields []Field `json:"fields"`
		}
		if err := json.Unmarshal(raw, &meta); err != nil {
			return fmt.Errorf("metaData: %w", err)
		}
		doc.Fields = meta.Fields
	}
	if raw, ok := members.Get("rows"); ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &doc.Rows); err != nil {
			return fmt.Errorf("rows: %w", err)
		}
	}

	*d = doc
	return nil
}

// MarshalJSON writes every member that was read, in its original order, with
// rows re-encoded. Documents built in code get the canonical member set.
func (d SelectRowsDocument) MarshalJSON() ([]byte, error) {
	rows, err := json.Marshal(nonNilRows(d.Rows))
	if err != nil {
		return nil, err
	}

	if d.members == nil {
		out := newMembers()
		for _, m := range []struct {
			key string
			val any
		}{
			{"schemaName", []string(d.SchemaName)},
			{"queryName", d.QueryName},
			{"metaData", map[string]any{"fields": nonNilFields(d.Fields)}},
		} {
			raw, err := json.Marshal(m.val)
			if err != nil {
				return nil, err
			}
			out.Set(m.key, raw)
		}
		out.Set("rows", rows)
		return json.Marshal(out)
	}

	out := cloneMembers(d.members)
	prev, had := out.Get("rows")
	switch {
	case had && isNull(prev) && d.Rows == nil:
		// keep an explicit null
	case had || len(d.Rows) > 0:
		out.Set("rows", rows)
	}
	return json.Marshal(out)
}

func nonNilRows(rows []Row) []Row {
	if rows == nil {
		return []Row{}
	}
	return rows
}

func nonNilFields(fields []Field) []Field {
	if fields == nil {
		return []Field{}
	}
	return fields
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
