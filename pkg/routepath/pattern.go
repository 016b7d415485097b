package routepath

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
)

// Pattern errors.
var (
	ErrMalformedPattern = errors.New("malformed route pattern")
	ErrMissingParam     = errors.New("missing route parameter")
)

// SplatName is the parameter name bound by a "*" segment.
const SplatName = "splat"

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenParam
	tokenSplat
	tokenOpen
	tokenClose
)

type token struct {
	kind  tokenKind
	value string // literal text or parameter name
}

// Pattern is a compiled route pattern.
//
// Syntax:
//
//	:name   one segment, bound to name
//	*       anything (lazily), bound to "splat"
//	( ... ) optional group
//
// Everything else is literal text, compared case-insensitively.
type Pattern struct {
	source     string
	tokens     []token
	paramNames []string
	re         *regexp.Regexp

	// captureRemaining is false when the pattern ends in a splat, which
	// consumes the rest of the pathname itself.
	captureRemaining bool
}

// Match is the result of matching a pattern against a pathname.
type Match struct {
	// RemainingPathname is the part of the pathname the pattern did not consume.
	// Empty means the pattern matched the whole pathname.
	RemainingPathname string

	// ParamNames and ParamValues are parallel. Optional parameters that did
	// not participate in the match are omitted from both.
	ParamNames  []string
	ParamValues []string
}

var patternCache sync.Map // string → *Pattern

// Compile parses a pattern, reusing an earlier compilation when possible.
func Compile(pattern string) (*Pattern, error) {
	if p, ok := patternCache.Load(pattern); ok {
		return p.(*Pattern), nil
	}

	p, err := compile(pattern)
	if err != nil {
		return nil, err
	}

	actual, _ := patternCache.LoadOrStore(pattern, p)
	return actual.(*Pattern), nil
}

// MustCompile is like Compile but panics on a malformed pattern.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

func compile(pattern string) (*Pattern, error) {
	tokens, err := tokenize(pattern)
	if err != nil {
		return nil, err
	}

	p := &Pattern{source: pattern, tokens: tokens, captureRemaining: true}

	var src strings.Builder
	src.WriteString("(?i)^")
	if !strings.HasPrefix(pattern, "/") {
		src.WriteString("/")
	}
	for _, tok := range tokens {
		switch tok.kind {
		case tokenLiteral:
			src.WriteString(regexp.QuoteMeta(tok.value))
		case tokenParam:
			src.WriteString("([^/?#]+)")
			p.paramNames = append(p.paramNames, tok.value)
		case tokenSplat:
			src.WriteString(`([\s\S]*?)`)
			p.paramNames = append(p.paramNames, SplatName)
		case tokenOpen:
			src.WriteString("(?:")
		case tokenClose:
			src.WriteString(")?")
		}
	}
	src.WriteString("/*")

	if n := len(tokens); n > 0 && tokens[n-1].kind == tokenSplat {
		p.captureRemaining = false
	}
	if p.captureRemaining {
		src.WriteString(`([\s\S]*?)`)
	}
	src.WriteString("$")

	re, err := regexp.Compile(src.String())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrMalformedPattern, pattern, err)
	}
	p.re = re

	return p, nil
}

func tokenize(pattern string) ([]token, error) {
	var (
		tokens  []token
		literal strings.Builder
		depth   int
	)

	flush := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, value: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case ':':
			j := i + 1
			for j < len(pattern) && isNameChar(pattern[j], j == i+1) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("%w %q: empty parameter name at offset %d", ErrMalformedPattern, pattern, i)
			}
			flush()
			tokens = append(tokens, token{kind: tokenParam, value: pattern[i+1 : j]})
			i = j - 1
		case '*':
			flush()
			tokens = append(tokens, token{kind: tokenSplat})
		case '(':
			flush()
			depth++
			tokens = append(tokens, token{kind: tokenOpen})
		case ')':
			if depth == 0 {
				return nil, fmt.Errorf("%w %q: unbalanced ')' at offset %d", ErrMalformedPattern, pattern, i)
			}
			flush()
			depth--
			tokens = append(tokens, token{kind: tokenClose})
		default:
			literal.WriteByte(c)
		}
	}
	flush()

	if depth != 0 {
		return nil, fmt.Errorf("%w %q: unclosed '('", ErrMalformedPattern, pattern)
	}
	return tokens, nil
}

func isNameChar(c byte, first bool) bool {
	switch {
	case c == '_' || c == '$':
		return true
	case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

// String returns the pattern source.
func (p *Pattern) String() string {
	return p.source
}

// ParamNames returns the names bound by the pattern, in order.
func (p *Pattern) ParamNames() []string {
	return append([]string(nil), p.paramNames...)
}

// Match matches the pattern against the start of pathname. A partial match
// must end on a path separator; the unconsumed tail is returned as
// RemainingPathname. ok is false when the pattern does not match.
func (p *Pattern) Match(pathname string) (m Match, ok bool) {
	if !strings.HasPrefix(pathname, "/") {
		pathname = "/" + pathname
	}

	idx := p.re.FindStringSubmatchIndex(pathname)
	if idx == nil {
		return Match{}, false
	}

	groups := len(p.paramNames)
	if p.captureRemaining {
		start, end := idx[2*(groups+1)], idx[2*(groups+1)+1]
		m.RemainingPathname = pathname[start:end]
		matched := pathname[:start]
		if m.RemainingPathname != "" && !strings.HasSuffix(matched, "/") {
			return Match{}, false
		}
	}

	for i, name := range p.paramNames {
		start, end := idx[2*(i+1)], idx[2*(i+1)+1]
		if start < 0 {
			continue
		}
		m.ParamNames = append(m.ParamNames, name)
		m.ParamValues = append(m.ParamValues, DecodeSegment(pathname[start:end]))
	}

	return m, true
}

// Format substitutes params into the pattern and collapses repeated slashes.
// A name with several values is consumed in order; a single value is reused
// for every occurrence. A missing parameter outside an optional group is an
// error.
func (p *Pattern) Format(params map[string][]string) (string, error) {
	var (
		b     strings.Builder
		depth int
		used  = make(map[string]int)
	)

	next := func(name string) (string, bool) {
		values := params[name]
		if len(values) == 0 {
			return "", false
		}
		i := used[name]
		used[name]++
		if i >= len(values) {
			i = len(values) - 1
		}
		return values[i], true
	}

	for _, tok := range p.tokens {
		switch tok.kind {
		case tokenLiteral:
			b.WriteString(tok.value)
		case tokenOpen:
			depth++
		case tokenClose:
			depth--
		case tokenParam, tokenSplat:
			name := tok.value
			if tok.kind == tokenSplat {
				name = SplatName
			}
			value, ok := next(name)
			if !ok {
				if depth > 0 {
					continue
				}
				return "", fmt.Errorf("%w %q for pattern %q", ErrMissingParam, name, p.source)
			}
			if tok.kind == tokenSplat {
				b.WriteString(escapeSplat(value))
			} else {
				b.WriteString(url.PathEscape(value))
			}
		}
	}

	return collapseSlashes(b.String()), nil
}

// Format compiles pattern and substitutes params into it.
func Format(pattern string, params map[string][]string) (string, error) {
	p, err := Compile(pattern)
	if err != nil {
		return "", err
	}
	return p.Format(params)
}

func escapeSplat(value string) string {
	segments := strings.Split(value, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

func collapseSlashes(path string) string {
	return repeatedSlashes.ReplaceAllString(path, "/")
}
