package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/campus-access-map/internal/model"
)

// MaxUploadBytes is the per-file limit for comment images.
const MaxUploadBytes = 10 << 20

var allowedExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".heic": true, ".heif": true,
}

// Rejection explains why one file was left out of a submission.
type Rejection struct {
	Name   string
	Reason string
}

// ValidateUploads splits files into the ones that may be sent and the ones
// that were rejected.  Rejected files do not block the others.
func ValidateUploads(files []*multipart.FileHeader) ([]*multipart.FileHeader, []Rejection) {
	var ok []*multipart.FileHeader
	var rejected []Rejection
	for _, fh := range files {
		if fh == nil {
			continue
		}
		if fh.Size > MaxUploadBytes {
			rejected = append(rejected, Rejection{
				Name:   fh.Filename,
				Reason: fmt.Sprintf("Arquivo %q muito grande. O tamanho máximo é 10MB.", fh.Filename),
			})
			continue
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExt[ext] {
			shown := strings.ToUpper(strings.TrimPrefix(ext, "."))
			if shown == "" {
				shown = "sem extensão"
			}
			rejected = append(rejected, Rejection{
				Name:   fh.Filename,
				Reason: fmt.Sprintf("Arquivo %q rejeitado: formato %s não é permitido. Use apenas PNG, JPG, JPEG, WEBP, HEIC ou HEIF.", fh.Filename, shown),
			})
			continue
		}
		ok = append(ok, fh)
	}
	return ok, rejected
}

// PostComment submits a new comment as pending.  files should already have
// gone through ValidateUploads.
func (c *Client) PostComment(ctx context.Context, token string, in model.NewComment, files []*multipart.FileHeader) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	created := in.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	fields := []struct{ k, v string }{
		{"user_name", in.UserName},
		{"rating", strconv.Itoa(in.Rating)},
		{"comment", in.Text},
		{"created_at", created.UTC().Format(time.RFC3339)},
		{"location_id", in.LocationID.String()},
		{"status", model.StatusPending},
	}
	for _, f := range fields {
		if err := w.WriteField(f.k, f.v); err != nil {
			return fmt.Errorf("%w: write field %s: %v", ErrTransport, f.k, err)
		}
	}
	for _, fh := range files {
		if err := attach(w, fh); err != nil {
			return fmt.Errorf("%w: attach %s: %v", ErrTransport, fh.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: close multipart: %v", ErrTransport, err)
	}
	_, err := c.do(ctx, http.MethodPost, "/comments/", token, &buf, w.FormDataContentType())
	return err
}

func attach(w *multipart.Writer, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := w.CreateFormFile("images", filepath.Base(fh.Filename))
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}
