package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalUploader writes images under Dir and serves them from BaseURL.
type LocalUploader struct {
	Dir     string
	BaseURL string
	Root    string
}

func (u *LocalUploader) Upload(ctx context.Context, folder string, f File) (Uploaded, error) {
	if err := ctx.Err(); err != nil {
		return Uploaded{}, err
	}
	ext, body, err := Sniff(f.Reader)
	if err != nil {
		return Uploaded{}, err
	}

	publicID := path.Join(u.Root, folder, NewPublicID()+"."+ext)
	target := filepath.Join(u.Dir, filepath.FromSlash(publicID))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Uploaded{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	out, err := os.Create(target)
	if err != nil {
		return Uploaded{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := io.Copy(out, body); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return Uploaded{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := out.Close(); err != nil {
		return Uploaded{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return Uploaded{
		PublicID: publicID,
		URL:      strings.TrimSuffix(u.BaseURL, "/") + "/" + publicID,
	}, nil
}

func (u *LocalUploader) Remove(_ context.Context, publicID string) error {
	clean := path.Clean("/" + publicID)
	err := os.Remove(filepath.Join(u.Dir, filepath.FromSlash(clean)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
