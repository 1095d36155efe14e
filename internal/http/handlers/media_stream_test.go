package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursekit/coursekit-backend/internal/clients/gcp"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
	"github.com/coursekit/coursekit-backend/internal/services"
)

// stubMediaService serves one object from an in-memory payload; openErr,
// when set, makes every OpenRange call fail with it.
type stubMediaService struct {
	obj     *types.MediaObject
	payload []byte
	openErr error
}

func (s *stubMediaService) Upload(ctx context.Context, viewer *ctxutil.RequestData, in services.UploadInput) (*types.MediaObject, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMediaService) ResolveForViewing(ctx context.Context, secureID string, viewer *ctxutil.RequestData) (*types.MediaObject, services.AccessDecision, error) {
	return s.obj, services.AccessDecision{Allowed: true, Reason: services.AccessPublic}, nil
}

func (s *stubMediaService) OpenRange(ctx context.Context, obj *types.MediaObject, offset, length int64) (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	end := int64(len(s.payload))
	if length >= 0 && offset+length < end {
		end = offset + length
	}
	return io.NopCloser(strings.NewReader(string(s.payload[offset:end]))), nil
}

func (s *stubMediaService) Delete(ctx context.Context, secureID string, viewer *ctxutil.RequestData) error {
	return errors.New("not implemented")
}

func newStreamTestRouter(t *testing.T, svc services.MediaService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	h := NewMediaHandler(log, svc)
	r := gin.New()
	r.GET("/api/media/:secureId", h.View)
	return r
}

func testVideoObject(payload []byte) *types.MediaObject {
	return &types.MediaObject{
		ID:         uuid.New(),
		SecureID:   uuid.NewString(),
		StorageKey: "media/lesson_video/test/clip.mp4",
		FileName:   "clip.mp4",
		MimeType:   "video/mp4",
		SizeBytes:  int64(len(payload)),
	}
}

func TestViewRangeRequest(t *testing.T) {
	payload := []byte("01234567890123456789")
	svc := &stubMediaService{obj: testVideoObject(payload), payload: payload}
	r := newStreamTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/media/"+svc.obj.SecureID, nil)
	req.Header.Set("Range", "bytes=0-9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", w.Code)
	}
	if got := w.Header().Get("Content-Range"); got != "bytes 0-9/20" {
		t.Fatalf("Content-Range = %q", got)
	}
	if body := w.Body.String(); body != "0123456789" {
		t.Fatalf("body = %q, want first 10 bytes", body)
	}
}

func TestViewRangeIgnoredForNonVideo(t *testing.T) {
	payload := []byte("0123456789")
	obj := testVideoObject(payload)
	obj.MimeType = "image/png"
	obj.FileName = "cover.png"
	svc := &stubMediaService{obj: obj, payload: payload}
	r := newStreamTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/media/"+obj.SecureID, nil)
	req.Header.Set("Range", "bytes=0-4")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for non-video range request", w.Code)
	}
	if body := w.Body.String(); body != string(payload) {
		t.Fatalf("body = %q, want full object", body)
	}
}

func TestViewUnsatisfiableRange(t *testing.T) {
	payload := []byte("0123456789")
	svc := &stubMediaService{obj: testVideoObject(payload), payload: payload}
	r := newStreamTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/media/"+svc.obj.SecureID, nil)
	req.Header.Set("Range", "bytes=100-200")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("status = %d, want 416", w.Code)
	}
	if got := w.Header().Get("Content-Range"); got != "bytes */10" {
		t.Fatalf("Content-Range = %q", got)
	}
}

// Storage failures split: missing backing object is 404, anything else
// (store unreachable, timeouts) is 500.
func TestViewStorageErrorTaxonomy(t *testing.T) {
	payload := []byte("0123456789")

	cases := []struct {
		name       string
		openErr    error
		wantStatus int
	}{
		{name: "backing object gone", openErr: gcp.ErrObjectNotFound, wantStatus: http.StatusNotFound},
		{name: "wrapped not found", openErr: errors.Join(errors.New("open media reader"), gcp.ErrObjectNotFound), wantStatus: http.StatusNotFound},
		{name: "store unreachable", openErr: errors.New("dial tcp: i/o timeout"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubMediaService{obj: testVideoObject(payload), payload: payload, openErr: tc.openErr}
			r := newStreamTestRouter(t, svc)

			req := httptest.NewRequest(http.MethodGet, "/api/media/"+svc.obj.SecureID, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}
