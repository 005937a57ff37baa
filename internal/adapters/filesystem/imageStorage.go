package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	imagePort "feedline/internal/ports/image"

	"github.com/gofrs/uuid"
)

// PublicPrefix پیشوند مسیر عمومی تصاویر
const PublicPrefix = "images"

// ImageStorageLocal stores uploads as files under Root. References look like
// "images/<uuid>-<name>" regardless of where Root lives on disk.
type ImageStorageLocal struct {
	Root string
}

func NewImageStorageLocal(root string) (*ImageStorageLocal, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &ImageStorageLocal{Root: root}, nil
}

func (s *ImageStorageLocal) Save(ctx context.Context, upload imagePort.Upload) (string, error) {
	name := StoredName(upload.Filename)

	f, err := os.OpenFile(filepath.Join(s.Root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, upload.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return path.Join(PublicPrefix, name), nil
}

// Delete حذف فایل؛ نبودن فایل خطا نیست
func (s *ImageStorageLocal) Delete(ctx context.Context, ref string) error {
	p, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *ImageStorageLocal) Exists(ctx context.Context, ref string) (bool, error) {
	p, err := s.resolve(ref)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// resolve maps a reference to a file directly inside Root.
func (s *ImageStorageLocal) resolve(ref string) (string, error) {
	name, err := KeyOf(ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Root, name), nil
}

// KeyOf extracts the stored file name from a reference and rejects anything
// that would escape the image directory.
func KeyOf(ref string) (string, error) {
	ref = strings.ReplaceAll(ref, "\\", "/")
	name := strings.TrimPrefix(ref, PublicPrefix+"/")
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return "", fmt.Errorf("invalid image reference %q", ref)
	}
	return name, nil
}

// StoredName ساخت نام یکتا: <uuid>-<نام اصلی>
func StoredName(original string) string {
	base := path.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, base)
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	return uuid.Must(uuid.NewV4()).String() + "-" + base
}
