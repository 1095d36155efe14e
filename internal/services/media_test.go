package services

import (
	"testing"

	types "github.com/coursekit/coursekit-backend/internal/domain"
)

func TestCacheControlFor(t *testing.T) {
	cases := []struct {
		mime string
		want string
	}{
		{"image/png", "public, max-age=86400"},
		{"image/jpeg", "public, max-age=86400"},
		{"video/mp4", "private, max-age=300"},
		{"application/pdf", "private, max-age=300"},
		{"", "private, max-age=300"},
	}
	for _, tc := range cases {
		obj := &types.MediaObject{MimeType: tc.mime}
		if got := CacheControlFor(obj); got != tc.want {
			t.Fatalf("CacheControlFor(%q) = %q, want %q", tc.mime, got, tc.want)
		}
	}
}
