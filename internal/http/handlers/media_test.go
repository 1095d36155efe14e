package handlers

import (
	"testing"
)

func TestParseByteRangeHeader(t *testing.T) {
	const size = int64(1000)

	cases := []struct {
		name    string
		header  string
		start   int64
		end     int64
		ok      bool
		wantErr bool
	}{
		{name: "empty header", header: "", ok: false},
		{name: "full object range", header: "bytes=0-999", start: 0, end: 999, ok: true},
		{name: "bounded range", header: "bytes=100-199", start: 100, end: 199, ok: true},
		{name: "open ended", header: "bytes=500-", start: 500, end: 999, ok: true},
		{name: "suffix range", header: "bytes=-200", start: 800, end: 999, ok: true},
		{name: "oversized suffix clamps", header: "bytes=-5000", start: 0, end: 999, ok: true},
		{name: "end clamped to size", header: "bytes=900-5000", start: 900, end: 999, ok: true},
		{name: "start past end of object", header: "bytes=1000-1001", wantErr: true},
		{name: "inverted bounds", header: "bytes=200-100", wantErr: true},
		{name: "negative start", header: "bytes=-abc", wantErr: true},
		{name: "multiple ranges", header: "bytes=0-1,5-9", wantErr: true},
		{name: "wrong unit", header: "items=0-10", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng, ok, err := parseByteRangeHeader(tc.header, size)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got rng=%+v ok=%v", rng, ok)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if rng.start != tc.start || rng.end != tc.end {
				t.Fatalf("range = %d-%d, want %d-%d", rng.start, rng.end, tc.start, tc.end)
			}
		})
	}
}

func TestParseByteRangeHeaderUnknownSize(t *testing.T) {
	if _, _, err := parseByteRangeHeader("bytes=0-10", 0); err == nil {
		t.Fatalf("expected error for unknown object size")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"lecture.mp4", "lecture.mp4"},
		{"../../etc/passwd", "passwd"},
		{`with"quote.pdf`, "withquote.pdf"},
		{"  padded.txt  ", "padded.txt"},
		{"/", ""},
		{".", ""},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveContentType(t *testing.T) {
	if got := resolveContentType("video/mp4", "x.bin"); got != "video/mp4" {
		t.Fatalf("explicit type ignored: %q", got)
	}
	if got := resolveContentType("", "clip.mp4"); got != "video/mp4" {
		t.Fatalf("extension fallback failed: %q", got)
	}
	if got := resolveContentType("", "mystery"); got != "application/octet-stream" {
		t.Fatalf("default fallback failed: %q", got)
	}
}

func TestBuildContentDisposition(t *testing.T) {
	if got := buildContentDisposition("a.mp4", false); got != `inline; filename="a.mp4"` {
		t.Fatalf("inline disposition = %q", got)
	}
	if got := buildContentDisposition("a.mp4", true); got != `attachment; filename="a.mp4"` {
		t.Fatalf("attachment disposition = %q", got)
	}
	if got := buildContentDisposition("/", false); got != "inline" {
		t.Fatalf("empty filename disposition = %q", got)
	}
}
