package uploadsvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"bookrental/util/httpx"

	"github.com/google/uuid"
)

// MaxImageSize caps slips and covers at 2 MB.
const MaxImageSize = 2 << 20

var (
	ErrTooLarge = errors.New("image exceeds 2 MB")
	ErrBadType  = errors.New("unsupported image type")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type Service interface {
	// SaveImage stores an uploaded image under the uploads dir with a
	// generated name and returns its public path.
	SaveImage(filename string, size int64, r io.Reader) (string, error)

	// IngestURL downloads a remote cover image through the shared
	// pooled client and stores it like an upload.
	IngestURL(ctx context.Context, rawURL string) (string, error)
}

type service struct {
	dir string
}

func New(dir string) (Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &service{dir: dir}, nil
}

func (s *service) SaveImage(filename string, size int64, r io.Reader) (string, error) {
	if size > MaxImageSize {
		return "", ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrBadType
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	// Size from the multipart header is client-supplied; enforce the
	// cap on the actual bytes too.
	n, err := io.Copy(dst, io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", err
	}
	if n > MaxImageSize {
		_ = os.Remove(dst.Name())
		return "", ErrTooLarge
	}
	return "/uploads/" + name, nil
}

func (s *service) IngestURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpx.Client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch cover: %s", resp.Status)
	}
	if resp.ContentLength > MaxImageSize {
		return "", ErrTooLarge
	}

	name := path.Base(req.URL.Path)
	if !allowedExt[strings.ToLower(filepath.Ext(name))] {
		// Fall back on the content type when the URL has no usable
		// extension.
		switch resp.Header.Get("Content-Type") {
		case "image/jpeg":
			name = "cover.jpg"
		case "image/png":
			name = "cover.png"
		case "image/webp":
			name = "cover.webp"
		case "image/gif":
			name = "cover.gif"
		default:
			return "", ErrBadType
		}
	}
	return s.SaveImage(name, 0, resp.Body)
}
