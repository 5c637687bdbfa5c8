package service

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"qrmenu/internal/apperr"

	"github.com/google/uuid"
)

const MaxUploadSize = 10 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalUploader writes images under Dir with generated names and returns the
// URL they are served from.
type LocalUploader struct {
	Dir       string
	URLPrefix string
}

func NewLocalUploader(dir string) *LocalUploader {
	return &LocalUploader{Dir: dir, URLPrefix: "/uploads/"}
}

func (u *LocalUploader) Save(filename string, size int64, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", apperr.Validation("invalid file type %q, allowed: jpg, jpeg, png, gif, webp", ext)
	}
	if size > MaxUploadSize {
		return "", apperr.Validation("file too large, limit is 10MB")
	}

	if err := os.MkdirAll(u.Dir, 0755); err != nil {
		return "", apperr.Storage(err, "create upload directory")
	}

	name := uuid.NewString() + ext
	path := filepath.Join(u.Dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", apperr.Storage(err, "create upload file")
	}

	written, err := io.Copy(dst, io.LimitReader(src, MaxUploadSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", apperr.Storage(err, "save upload")
	}
	if written > MaxUploadSize {
		os.Remove(path)
		return "", apperr.Validation("file too large, limit is 10MB")
	}
	return u.URLPrefix + name, nil
}
