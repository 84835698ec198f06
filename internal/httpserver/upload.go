package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pc_store/pkg/logging"
)

var allowedImages = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// UploadHTTP stores product images under Dir and answers with a URL below
// PublicURL + "/uploads".
type UploadHTTP struct {
	Dir       string
	PublicURL string
	MaxBytes  int64
}

var errTooLarge = errors.New("file too large")

func (h *UploadHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.image")

	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(l, "upload_error", "multipart field image is required", err)
	}
	if fh.Size > h.MaxBytes {
		l.Warn("upload_error", "status", http.StatusRequestEntityTooLarge, "reason", "too large", "size", fh.Size)
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("image must be at most %d bytes", h.MaxBytes))
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	wantType, ok := allowedImages[ext]
	if !ok {
		return badRequest(l, "upload_error", "only jpg, jpeg, png and gif images are allowed", nil)
	}

	src, err := fh.Open()
	if err != nil {
		return badRequest(l, "upload_error", "cannot read upload", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return badRequest(l, "upload_error", "cannot read upload", err)
	}
	head = head[:n]
	if got := http.DetectContentType(head); got != wantType {
		return badRequest(l, "upload_error", "file content is not a "+ext[1:]+" image", fmt.Errorf("detected %s", got))
	}

	name := uuid.NewString() + ext
	if err := h.save(name, io.MultiReader(bytes.NewReader(head), src)); err != nil {
		if errors.Is(err, errTooLarge) {
			l.Warn("upload_error", "status", http.StatusRequestEntityTooLarge, "reason", "too large")
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("image must be at most %d bytes", h.MaxBytes))
		}
		l.Error("upload_error", "status", http.StatusInternalServerError, "reason", "cannot store file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store file")
	}

	url := h.url(c, name)
	l.Info("upload_success", "file", name, "size", fh.Size)
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

func (h *UploadHTTP) save(name string, r io.Reader) error {
	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(h.Dir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	written, err := io.Copy(f, io.LimitReader(r, h.MaxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > h.MaxBytes {
		err = errTooLarge
	}
	if err != nil {
		_ = os.Remove(dst)
	}
	return err
}

func (h *UploadHTTP) url(c echo.Context, name string) string {
	base := strings.TrimRight(h.PublicURL, "/")
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	return base + path.Join("/uploads", name)
}
