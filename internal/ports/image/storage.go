package image

import (
	"context"
	"io"
)

// Upload فایل آپلودشده‌ای که transport قبل از فراخوانی workflow ذخیره می‌کند
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStorage stores images and addresses them by a slash-separated path
// relative to the public prefix, e.g. "images/<uuid>-cat.png".
type ImageStorage interface {
	Save(ctx context.Context, upload Upload) (string, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
