package images

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	gerrors "github.com/go-faster/errors"
)

// maxImageBytes bounds a single resolved image.
const maxImageBytes = 10 << 20

// Resolver locates product images for the merchandise import: either by base
// filename inside an uploaded archive, or by downloading a supplied URL.
// Resolution failures are reported to the caller but must never fail the
// product record itself.
type Resolver struct {
	uploadsDir string
	client     *http.Client
	archive    map[string][]byte
}

func NewResolver(uploadsDir string, fetchTimeout time.Duration) *Resolver {
	return &Resolver{
		uploadsDir: uploadsDir,
		client:     &http.Client{Timeout: fetchTimeout},
	}
}

// LoadArchive indexes a ZIP of images by base filename. Directory structure
// inside the archive is ignored.
func (r *Resolver) LoadArchive(zipPath string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return gerrors.Wrap(err, "failed to open images archive")
	}
	defer func() { _ = zr.Close() }()

	r.archive = make(map[string][]byte)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return gerrors.Wrapf(err, "failed to read %s from archive", f.Name)
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxImageBytes))
		_ = rc.Close()
		if err != nil {
			return gerrors.Wrapf(err, "failed to read %s from archive", f.Name)
		}
		r.archive[path.Base(f.Name)] = data
	}
	return nil
}

// FromArchive resolves imagePath against the loaded archive and stores the
// image under the uploads directory. Returns the stored relative path.
func (r *Resolver) FromArchive(imagePath string) (string, error) {
	name := path.Base(strings.TrimSpace(imagePath))
	if name == "" || name == "." {
		return "", fmt.Errorf("blank image path")
	}
	data, ok := r.archive[name]
	if !ok {
		return "", fmt.Errorf("image %q not found in archive", name)
	}
	return r.store(name, data)
}

// FromURL downloads imageURL and stores the image under the uploads
// directory. The response must sniff as an image.
func (r *Resolver) FromURL(ctx context.Context, imageURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid image url: %s", imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", gerrors.Wrap(err, "image download failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download failed: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", gerrors.Wrap(err, "image download failed")
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "image"
	}
	return r.store(name, data)
}

func (r *Resolver) store(name string, data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%s is not an image (detected %s)", name, mt.String())
	}
	if filepath.Ext(name) == "" {
		name += mt.Extension()
	}

	dir := filepath.Join(r.uploadsDir, "merchandise")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	return filepath.Join("merchandise", filepath.Base(name)), nil
}
