package service

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// SaveUpload stores an image under a fresh name in the upload directory and
// returns its public URL.
func (s *Service) SaveUpload(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] {
		return "", invalid("file", "unsupported file type "+ext)
	}
	if s.opts.UploadDir == "" {
		return "", invalid("file", "uploads are disabled")
	}
	if err := os.MkdirAll(s.opts.UploadDir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}

	name := s.newID() + ext
	f, err := os.Create(filepath.Join(s.opts.UploadDir, name))
	if err != nil {
		return "", errors.Wrapf(err, "create %s", name)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.Wrapf(err, "write %s", name)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "close %s", name)
	}
	zap.S().Infow("upload stored", "file", name, "original", filename)
	return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/uploads/" + name, nil
}
