package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Path canonicalization errors.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// Canonicalize normalizes a pathname before it is matched:
//   - collapse repeated slashes (/blog//post → /blog/post)
//   - drop "." segments and resolve ".." segments
//   - remove the trailing slash, except for root "/"
//
// Pathnames containing a backslash, a NUL byte (literal or %00), an invalid
// percent-escape, or a ".." that would climb above root are rejected.
// The second return value reports whether the pathname changed.
func Canonicalize(pathname string) (string, bool, error) {
	if pathname == "" {
		return "/", true, nil
	}

	if strings.Contains(pathname, "\\") {
		return "", false, ErrBackslashInPath
	}
	if strings.Contains(pathname, "\x00") || strings.Contains(strings.ToUpper(pathname), "%00") {
		return "", false, ErrNullByteInPath
	}
	if strings.Contains(pathname, "%") {
		if err := validatePercentEscapes(pathname); err != nil {
			return "", false, err
		}
	}

	var segments []string
	for _, seg := range strings.Split(pathname, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return "", false, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	canonical := "/" + strings.Join(segments, "/")
	return canonical, canonical != pathname, nil
}

// validatePercentEscapes checks that every "%" starts a %XX hex escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// DecodeSegment percent-decodes a captured parameter value. Values that do
// not decode cleanly are returned as captured.
func DecodeSegment(segment string) string {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}
