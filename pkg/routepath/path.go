package routepath

import "strings"

// Location is a navigation path split into its components.
// Search keeps its leading "?" and Hash keeps its leading "#".
type Location struct {
	Pathname string
	Search   string
	Hash     string
}

// Split splits a combined path of the form pathname[?search][#hash].
//
// The first "#" starts the hash; within what precedes it, the first "?"
// starts the search. An empty pathname becomes "/".
func Split(path string) Location {
	var loc Location

	pathname := path
	if i := strings.IndexByte(pathname, '#'); i != -1 {
		loc.Hash = pathname[i:]
		pathname = pathname[:i]
	}
	if i := strings.IndexByte(pathname, '?'); i != -1 {
		loc.Search = pathname[i:]
		pathname = pathname[:i]
	}
	if pathname == "" {
		pathname = "/"
	}
	loc.Pathname = pathname

	return loc
}

// Join is the inverse of Split.
func Join(loc Location) string {
	return loc.Pathname + loc.Search + loc.Hash
}

// String returns the combined path.
func (l Location) String() string {
	return Join(l)
}
