package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type FileResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// FileService saves uploaded files under <dir>/<folder> and serves them back
// as <baseURL>/uploads/<folder>/<stored name>. Stored names are uuid-based so
// uploads never collide; the original name is echoed in the response.
type FileService struct {
	dir     string
	baseURL string
}

func NewFileService(dir, baseURL string) *FileService {
	return &FileService{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *FileService) Save(files []*multipart.FileHeader, folder string) ([]FileResponse, error) {
	if folder == "" {
		folder = "default"
	}
	folder = filepath.Base(folder)

	uploadDir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	res := make([]FileResponse, 0, len(files))
	for _, fh := range files {
		stored := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		if err := saveFile(fh, filepath.Join(uploadDir, stored)); err != nil {
			return nil, fmt.Errorf("save %s: %w", fh.Filename, err)
		}

		res = append(res, FileResponse{
			URL:  s.baseURL + "/uploads/" + folder + "/" + stored,
			Name: fh.Filename,
		})
	}
	return res, nil
}

func saveFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
