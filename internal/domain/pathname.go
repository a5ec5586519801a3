package domain

import (
	"net/url"
	"strings"
)

// PathName is the routing identity of a server URL
type PathName struct {
	Controller    string
	Action        string
	ContainerPath string
}

// IsZero reports whether nothing could be parsed
func (p PathName) IsZero() bool {
	return p.Controller == "" && p.Action == "" && p.ContainerPath == ""
}

// ParsePathName splits a server request path into controller, action and container path.
//
// Two shapes are recognised:
//
//	/context/container/path/controller-action.view   (modern)
//	/context/controller/container/path/action.view   (legacy)
//
// Absolute URLs are accepted; scheme, host, query and fragment are ignored.
// Segments are percent-decoded. Malformed input yields a partial result; a
// path ending in "/" has no action.
func ParsePathName(rawPath, contextPath string) PathName {
	path := stripToPath(rawPath)
	path = stripContextPath(path, contextPath)

	var segments []string
	for seg := range strings.SplitSeq(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return PathName{}
	}
	if strings.HasSuffix(path, "/") {
		// a folder url: no action segment
		return PathName{ContainerPath: "/" + strings.Join(decodeAll(segments), "/")}
	}

	last := segments[len(segments)-1]
	container := segments[:len(segments)-1]

	action := last
	if dot := strings.Index(action, "."); dot > 0 {
		action = action[:dot]
	}

	var result PathName
	if dash := strings.Index(action, "-"); dash > 0 {
		result.Controller = decodeSegment(action[:dash])
		result.Action = decodeSegment(action[dash+1:])
	} else {
		result.Action = decodeSegment(action)
		if len(container) > 0 {
			result.Controller = decodeSegment(container[0])
			container = container[1:]
		}
	}

	result.ContainerPath = "/" + strings.Join(decodeAll(container), "/")
	return result
}

func decodeAll(segments []string) []string {
	decoded := make([]string, len(segments))
	for i, seg := range segments {
		decoded[i] = decodeSegment(seg)
	}
	return decoded
}

func stripToPath(raw string) string {
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil {
			return u.EscapedPath()
		}
	}
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

func stripContextPath(path, contextPath string) string {
	contextPath = strings.TrimSuffix(contextPath, "/")
	if contextPath == "" {
		return path
	}
	if !strings.HasPrefix(contextPath, "/") {
		contextPath = "/" + contextPath
	}
	if path == contextPath {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, contextPath+"/"); ok {
		return rest
	}
	return path
}

func decodeSegment(s string) string {
	dec, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return dec
}

// URLParam returns the first value of name in rawURL's query string
func URLParam(rawURL, name string) (string, bool) {
	_, query, ok := strings.Cut(rawURL, "?")
	if !ok {
		return "", false
	}
	if i := strings.Index(query, "#"); i >= 0 {
		query = query[:i]
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		// ParseQuery keeps the pairs it could parse
		if values == nil {
			return "", false
		}
	}
	if !values.Has(name) {
		return "", false
	}
	return values.Get(name), true
}
