package routepath

import (
	"errors"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantChanged bool
		wantErr     error
	}{
		{name: "root", input: "/", want: "/"},
		{name: "empty", input: "", want: "/", wantChanged: true},
		{name: "simple", input: "/about", want: "/about"},
		{name: "trailing slash", input: "/about/", want: "/about", wantChanged: true},
		{name: "double slash", input: "/blog//post", want: "/blog/post", wantChanged: true},
		{name: "dot segment", input: "/blog/./post", want: "/blog/post", wantChanged: true},
		{name: "dot dot segment", input: "/blog/../other", want: "/other", wantChanged: true},
		{name: "missing leading slash", input: "about", want: "/about", wantChanged: true},
		{name: "valid escape", input: "/a%20b", want: "/a%20b"},
		{name: "backslash", input: "/a\\b", wantErr: ErrBackslashInPath},
		{name: "encoded nul", input: "/a%00b", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/a%GG", wantErr: ErrInvalidPercentEscape},
		{name: "truncated escape", input: "/a%2", wantErr: ErrInvalidPercentEscape},
		{name: "escapes root", input: "/../secret", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := Canonicalize(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Canonicalize(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonicalize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if changed != tt.wantChanged {
				t.Errorf("Canonicalize(%q) changed = %v, want %v", tt.input, changed, tt.wantChanged)
			}
		})
	}
}

func TestDecodeSegment(t *testing.T) {
	if got := DecodeSegment("hello%20world"); got != "hello world" {
		t.Errorf("DecodeSegment() = %q, want %q", got, "hello world")
	}
	if got := DecodeSegment("100%"); got != "100%" {
		t.Errorf("DecodeSegment() = %q, want raw value", got)
	}
}
