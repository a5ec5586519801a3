package filesystem

import (
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"urlresolver/internal/application"
	"urlresolver/internal/domain"
)

// catalogFile is the on-disk catalog export. The grouped sections mirror the
// server's per-kind lookups; entries is a flat alternative with explicit kinds.
//
//	assays:    [{id: 91, name: NAb, provider: General}]
//	assayRuns: [{id: 923, protocolId: 14}]
//	lists:     [{id: 12, name: Reagents}]
//	samples:   [{id: 3, sampleType: Blood}]
type catalogFile struct {
	Assays    []assayRecord    `json:"assays" yaml:"assays"`
	AssayRuns []assayRunRecord `json:"assayRuns" yaml:"assayRuns"`
	Lists     []listRecord     `json:"lists" yaml:"lists"`
	Samples   []sampleRecord   `json:"samples" yaml:"samples"`
	Entries   []entryRecord    `json:"entries" yaml:"entries"`
}

type assayRecord struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Provider string `json:"provider" yaml:"provider"`
}

type assayRunRecord struct {
	ID         int64 `json:"id" yaml:"id"`
	ProtocolID int64 `json:"protocolId" yaml:"protocolId"`
}

type listRecord struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type sampleRecord struct {
	ID         int64  `json:"id" yaml:"id"`
	SampleType string `json:"sampleType" yaml:"sampleType"`
}

type entryRecord struct {
	Kind   string `json:"kind" yaml:"kind"`
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Parent string `json:"parent" yaml:"parent"`
}

// entries flattens the file in section order. Unknown kinds are kept as
// RouteUnknown so the importer can count them as skipped.
func (f *catalogFile) entries() []domain.CatalogEntry {
	var out []domain.CatalogEntry
	for _, a := range f.Assays {
		out = append(out, domain.CatalogEntry{Kind: domain.RouteAssay, ID: a.ID, Name: a.Name, Parent: a.Provider})
	}
	for _, r := range f.AssayRuns {
		parent := ""
		if r.ProtocolID > 0 {
			parent = strconv.FormatInt(r.ProtocolID, 10)
		}
		out = append(out, domain.CatalogEntry{Kind: domain.RouteAssayRun, ID: r.ID, Parent: parent})
	}
	for _, l := range f.Lists {
		out = append(out, domain.CatalogEntry{Kind: domain.RouteList, ID: l.ID, Name: l.Name})
	}
	for _, s := range f.Samples {
		out = append(out, domain.CatalogEntry{Kind: domain.RouteSample, ID: s.ID, Parent: s.SampleType})
	}
	for _, e := range f.Entries {
		out = append(out, domain.CatalogEntry{Kind: domain.ParseRouteKind(e.Kind), ID: e.ID, Name: e.Name, Parent: e.Parent})
	}
	return out
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ReadCatalog reads a catalog export. ".yaml"/".yml" files are YAML,
// anything else is JSONC.
func (s *Store) ReadCatalog(path string) ([]domain.CatalogEntry, error) {
	var f catalogFile
	if isYAML(path) {
		data, err := s.readFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, &application.DocumentError{Path: path, Kind: "catalog", Reason: err.Error()}
		}
	} else if err := s.readJSONC(path, "catalog", &f); err != nil {
		return nil, err
	}
	return f.entries(), nil
}
