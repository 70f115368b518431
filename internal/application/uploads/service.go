package uploads

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"agriconnect-backend/internal/infrastructure/storage"
	"agriconnect-backend/internal/pkg/apperror"

	"github.com/google/uuid"
)

const (
	MaxImageBytes = 5 << 20
	MaxTempBytes  = 2 << 20
)

var errNoFile = apperror.Invalid("No file provided")

// File is an uploaded part read into memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Service stores listing images. Store is nil when no backend is configured.
type Service struct {
	Store storage.ObjectStore
	Now   func() time.Time
}

// UploadResult is the body of POST /api/upload.
type UploadResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	FileName string `json:"fileName"`
}

// TempResult is the body of POST /api/upload-temp.
type TempResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	FileName string `json:"fileName"`
	IsBase64 bool   `json:"isBase64"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func errStorageConfig() *apperror.Error {
	return &apperror.Error{
		Code:    http.StatusInternalServerError,
		Message: "Image storage is not configured: create the bucket and set STORAGE_BUCKET with SUPABASE_URL/SUPABASE_SECRET_KEY or STORAGE_DRIVER=s3",
	}
}

// Upload validates an image and stores it under listings/.
func (s *Service) Upload(ctx context.Context, f *File) (*UploadResult, error) {
	if err := check(f, MaxImageBytes, "5MB"); err != nil {
		return nil, err
	}
	if s.Store == nil {
		return nil, errStorageConfig()
	}
	key := ObjectKey(f.Name, f.ContentType, s.now())
	url, err := s.Store.Upload(ctx, key, f.Data, f.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, errStorageConfig()
		}
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	return &UploadResult{Success: true, ImageURL: url, FileName: key}, nil
}

// Temp returns the image inline as a data URL without storing it.
func (s *Service) Temp(f *File) (*TempResult, error) {
	if err := check(f, MaxTempBytes, "2MB"); err != nil {
		return nil, err
	}
	data := "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
	return &TempResult{Success: true, ImageURL: data, FileName: f.Name, IsBase64: true}, nil
}

func check(f *File, limit int, label string) error {
	if f == nil || len(f.Data) == 0 {
		return errNoFile
	}
	if !strings.HasPrefix(f.ContentType, "image/") {
		return apperror.Invalid("Only image files are allowed")
	}
	if len(f.Data) > limit {
		return apperror.Invalid("File size exceeds " + label + " limit")
	}
	return nil
}

var extRe = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// ObjectKey names a stored image: listings/<unixmillis>-<random>.<ext>.
func ObjectKey(name, contentType string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(name))
	if !extRe.MatchString(ext) {
		ext = "." + strings.TrimPrefix(strings.SplitN(contentType, ";", 2)[0], "image/")
		if ext == ".jpeg" || !extRe.MatchString(ext) {
			ext = ".jpg"
		}
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("listings/%d-%s%s", now.UnixMilli(), random, ext)
}
