package uploads

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"agriconnect-backend/internal/infrastructure/storage"
	"agriconnect-backend/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	key  string
	data []byte
	err  error
}

func (f *fakeStore) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.data = key, body
	return "https://cdn.example.com/images/" + key, nil
}

func TestUpload_StoresUnderListings(t *testing.T) {
	fs := &fakeStore{}
	s := &Service{Store: fs, Now: func() time.Time { return time.UnixMilli(1700000000000) }}

	res, err := s.Upload(context.Background(), &File{Name: "husk.PNG", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Regexp(t, regexp.MustCompile(`^listings/1700000000000-[0-9a-f]{10}\.png$`), res.FileName)
	assert.Equal(t, "https://cdn.example.com/images/"+res.FileName, res.ImageURL)
	assert.Equal(t, []byte("png"), fs.data)
}

func TestUpload_Validation(t *testing.T) {
	s := &Service{Store: &fakeStore{}}
	ctx := context.Background()

	_, err := s.Upload(ctx, nil)
	assert.Equal(t, errNoFile, err)

	_, err = s.Upload(ctx, &File{Name: "a.pdf", ContentType: "application/pdf", Data: []byte("x")})
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ae.Code)

	big := make([]byte, MaxImageBytes+1)
	_, err = s.Upload(ctx, &File{Name: "a.jpg", ContentType: "image/jpeg", Data: big})
	ae, ok = apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "File size exceeds 5MB limit", ae.Message)
}

func TestUpload_NotConfigured(t *testing.T) {
	_, err := (&Service{}).Upload(context.Background(), &File{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("x")})
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, ae.Code)

	s := &Service{Store: &fakeStore{err: errors.Join(errors.New("bucket missing"), storage.ErrNotConfigured)}}
	_, err = s.Upload(context.Background(), &File{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("x")})
	ae, ok = apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Message, "STORAGE_BUCKET")
}

func TestTemp(t *testing.T) {
	s := &Service{}
	res, err := s.Temp(&File{Name: "a.gif", ContentType: "image/gif", Data: []byte("GIF")})
	require.NoError(t, err)
	assert.True(t, res.IsBase64)
	assert.Equal(t, "data:image/gif;base64,R0lG", res.ImageURL)

	_, err = s.Temp(&File{Name: "a.gif", ContentType: "image/gif", Data: make([]byte, MaxTempBytes+1)})
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "File size exceeds 2MB limit", ae.Message)
}

func TestObjectKey_ExtensionFallback(t *testing.T) {
	now := time.UnixMilli(42)
	assert.Regexp(t, `^listings/42-[0-9a-f]{10}\.jpg$`, ObjectKey("photo", "image/jpeg", now))
	assert.Regexp(t, `^listings/42-[0-9a-f]{10}\.webp$`, ObjectKey("", "image/webp", now))
}
