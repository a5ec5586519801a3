package domain

import (
	"encoding/json"
	"fmt"
)

// Hit is one search-index result
type Hit struct {
	ID    string
	URL   string
	Title string
	Data  Cell // object cell; zero Cell when the hit has no data

	hasURL  bool
	hasData bool
	members *Members
}

// HasURL reports whether the hit carried a url
func (h Hit) HasURL() bool {
	return h.hasURL
}

// HasData reports whether the hit carried a data object
func (h Hit) HasData() bool {
	return h.hasData
}

// WithURL returns a deep copy of h with its url replaced
func (h Hit) WithURL(u string) Hit {
	out := h.Clone()
	out.URL = u
	out.hasURL = true
	if out.members != nil {
		if raw, err := json.Marshal(u); err == nil {
			out.members.Set("url", raw)
		}
	}
	return out
}

// Clone returns a deep copy of h
func (h Hit) Clone() Hit {
	out := h
	out.Data = h.Data.Clone()
	if h.members != nil {
		out.members = cloneMembers(h.members)
	}
	return out
}

// NewHit builds a hit in code. data may be nil.
func NewHit(id, url, title string, data any) (Hit, error) {
	h := Hit{ID: id, URL: url, Title: title, hasURL: url != ""}
	if data != nil {
		c, err := NewCell(data)
		if err != nil {
			return Hit{}, err
		}
		h.Data = c
		h.hasData = c.Kind() == CellObject
	}
	return h, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (h *Hit) UnmarshalJSON(data []byte) error {
	members, err := parseMembers(data)
	if err != nil {
		return fmt.Errorf("hit: %w", err)
	}
	hit := Hit{members: members}

	// ids are usually strings but some indexes emit numbers
	if raw, ok := members.Get("id"); ok {
		hit.ID, _ = scalarString(raw)
	}
	if raw, ok := members.Get("url"); ok {
		hit.URL, hit.hasURL = scalarString(raw)
	}
	if raw, ok := members.Get("title"); ok {
		hit.Title, _ = scalarString(raw)
	}
	if raw, ok := members.Get("data"); ok {
		c := ParseCell(raw)
		if c.Kind() == CellObject {
			hit.Data = c
			hit.hasData = true
		}
	}

	*h = hit
	return nil
}

// MarshalJSON implements json.Marshaler
func (h Hit) MarshalJSON() ([]byte, error) {
	if h.members != nil {
		return json.Marshal(h.members)
	}

	out := newMembers()
	set := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out.Set(key, raw)
		return nil
	}
	if err := set("id", h.ID); err != nil {
		return nil, err
	}
	if h.hasURL {
		if err := set("url", h.URL); err != nil {
			return nil, err
		}
	}
	if err := set("title", h.Title); err != nil {
		return nil, err
	}
	if h.hasData {
		if err := set("data", h.Data); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// SearchDocument is the server's search-index response
type SearchDocument struct {
	Hits []Hit

	members *Members
}

// WithHits returns a deep copy of d carrying hits instead of d.Hits
func (d *SearchDocument) WithHits(hits []Hit) *SearchDocument {
	var members *Members
	if d.members != nil {
		members = cloneMembers(d.members)
	}
	return &SearchDocument{Hits: hits, members: members}
}

// UnmarshalJSON implements json.Unmarshaler
func (d *SearchDocument) UnmarshalJSON(data []byte) error {
	members, err := parseMembers(data)
	if err != nil {
		return fmt.Errorf("search document: %w", err)
	}
	doc := SearchDocument{members: members}
	if raw, ok := members.Get("hits"); ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &doc.Hits); err != nil {
			return fmt.Errorf("hits: %w", err)
		}
	}
	*d = doc
	return nil
}

// MarshalJSON implements json.Marshaler
func (d SearchDocument) MarshalJSON() ([]byte, error) {
	hits := d.Hits
	if hits == nil {
		hits = []Hit{}
	}
	raw, err := json.Marshal(hits)
	if err != nil {
		return nil, err
	}

	out := newMembers()
	if d.members != nil {
		out = cloneMembers(d.members)
		if prev, had := out.Get("hits"); had && isNull(prev) && d.Hits == nil {
			return json.Marshal(out)
		}
	}
	out.Set("hits", raw)
	return json.Marshal(out)
}
