package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursekit/coursekit-backend/internal/clients/gcp"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/http/response"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
	"github.com/coursekit/coursekit-backend/internal/services"
)

type MediaHandler struct {
	log          *logger.Logger
	mediaService services.MediaService
}

func NewMediaHandler(log *logger.Logger, mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{log: log.With("handler", "MediaHandler"), mediaService: mediaService}
}

// POST /api/media/upload
func (h *MediaHandler) Upload(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer file.Close()

	var courseID *uuid.UUID
	if raw := c.PostForm("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
			return
		}
		courseID = &id
	}

	obj, err := h.mediaService.Upload(c.Request.Context(), rd, services.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Category:    c.PostForm("category"),
		CourseID:    courseID,
		IsPublic:    c.PostForm("is_public") == "true",
		SizeBytes:   fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"media": obj})
}

// GET /api/media/:secureId
//
// Serves the payload behind the access gate with byte-range support so
// browsers can seek within videos.
func (h *MediaHandler) View(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	secureID := c.Param("secureId")

	obj, decision, err := h.mediaService.ResolveForViewing(c.Request.Context(), secureID, rd)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	h.log.Debug("media access granted", "secure_id", secureID, "reason", decision.Reason)

	h.streamMediaObject(c, obj)
}

// DELETE /api/media/:secureId
func (h *MediaHandler) Delete(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := h.mediaService.Delete(c.Request.Context(), c.Param("secureId"), rd); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

type byteRange struct {
	start int64
	end   int64
}

func parseByteRangeHeader(rangeHeader string, size int64) (byteRange, bool, error) {
	rh := strings.TrimSpace(rangeHeader)
	if rh == "" {
		return byteRange{}, false, nil
	}
	if size <= 0 {
		return byteRange{}, false, fmt.Errorf("unknown object size")
	}
	if !strings.HasPrefix(rh, "bytes=") {
		return byteRange{}, false, fmt.Errorf("unsupported range unit")
	}
	parts := strings.Split(strings.TrimPrefix(rh, "bytes="), ",")
	if len(parts) != 1 {
		return byteRange{}, false, fmt.Errorf("multiple ranges not supported")
	}
	part := strings.TrimSpace(parts[0])
	if part == "" {
		return byteRange{}, false, fmt.Errorf("empty range")
	}
	if strings.HasPrefix(part, "-") {
		suffix := strings.TrimPrefix(part, "-")
		n, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil || n <= 0 {
			return byteRange{}, false, fmt.Errorf("invalid suffix range")
		}
		if n > size {
			n = size
		}
		return byteRange{start: size - n, end: size - 1}, true, nil
	}

	bounds := strings.Split(part, "-")
	if len(bounds) != 2 {
		return byteRange{}, false, fmt.Errorf("invalid range format")
	}
	start, err := strconv.ParseInt(bounds[0], 10, 64)
	if err != nil || start < 0 {
		return byteRange{}, false, fmt.Errorf("invalid range start")
	}
	var end int64
	if bounds[1] == "" {
		end = size - 1
	} else {
		end, err = strconv.ParseInt(bounds[1], 10, 64)
		if err != nil {
			return byteRange{}, false, fmt.Errorf("invalid range end")
		}
	}
	if start >= size || end < start {
		return byteRange{}, false, fmt.Errorf("range out of bounds")
	}
	if end >= size {
		end = size - 1
	}
	return byteRange{start: start, end: end}, true, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" {
		return ""
	}
	base = strings.ReplaceAll(base, "\"", "")
	base = strings.ReplaceAll(base, "\\", "")
	return strings.TrimSpace(base)
}

func resolveContentType(primary, filename string) string {
	for _, v := range []string{
		strings.TrimSpace(primary),
		strings.TrimSpace(mime.TypeByExtension(filepath.Ext(filename))),
	} {
		if v != "" {
			return v
		}
	}
	return "application/octet-stream"
}

func buildContentDisposition(filename string, download bool) string {
	disposition := "inline"
	if download {
		disposition = "attachment"
	}
	name := sanitizeFilename(filename)
	if name == "" {
		return disposition
	}
	return fmt.Sprintf("%s; filename=\"%s\"", disposition, name)
}

// respondStreamError maps storage failures: a missing backing object is
// 404, anything else (unreachable store, I/O timeout) is 500.
func (h *MediaHandler) respondStreamError(c *gin.Context, obj *types.MediaObject, err error) {
	if errors.Is(err, gcp.ErrObjectNotFound) {
		h.log.Warn("backing object missing", "secure_id", obj.SecureID, "storage_key", obj.StorageKey)
		response.RespondError(c, http.StatusNotFound, "media_not_found", nil)
		return
	}
	h.log.Error("open media reader failed", "secure_id", obj.SecureID, "error", err)
	response.RespondError(c, http.StatusInternalServerError, "storage_unavailable", nil)
}

func (h *MediaHandler) streamMediaObject(c *gin.Context, obj *types.MediaObject) {
	ctx := c.Request.Context()

	contentType := resolveContentType(obj.MimeType, obj.FileName)
	disposition := buildContentDisposition(obj.FileName, c.Query("download") != "")
	cacheControl := services.CacheControlFor(obj)
	size := obj.SizeBytes
	rangeHeader := c.GetHeader("Range")

	// Only video is seekable; for everything else a Range header is
	// ignored and the full object streams with 200.
	if rangeHeader != "" && size > 0 && obj.IsVideo() {
		rng, ok, rErr := parseByteRangeHeader(rangeHeader, size)
		if rErr != nil {
			c.Header("Content-Range", fmt.Sprintf("bytes */%d", size))
			response.RespondError(c, http.StatusRequestedRangeNotSatisfiable, "invalid_range", rErr)
			return
		}
		if ok {
			reader, err := h.mediaService.OpenRange(ctx, obj, rng.start, rng.end-rng.start+1)
			if err != nil {
				h.respondStreamError(c, obj, err)
				return
			}
			headers := map[string]string{
				"Content-Range":       fmt.Sprintf("bytes %d-%d/%d", rng.start, rng.end, size),
				"Accept-Ranges":       "bytes",
				"Content-Disposition": disposition,
				"Cache-Control":       cacheControl,
			}
			c.DataFromReader(http.StatusPartialContent, rng.end-rng.start+1, contentType, reader, headers)
			return
		}
	}

	reader, err := h.mediaService.OpenRange(ctx, obj, 0, -1)
	if err != nil {
		h.respondStreamError(c, obj, err)
		return
	}
	headers := map[string]string{
		"Content-Disposition": disposition,
		"Cache-Control":       cacheControl,
	}
	if obj.IsVideo() {
		headers["Accept-Ranges"] = "bytes"
	}
	c.DataFromReader(http.StatusOK, size, contentType, reader, headers)
}
