package uploads

import (
	"io"

	uploadsvc "agriconnect-backend/internal/application/uploads"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FormField is the multipart field carrying the image.
const FormField = "image"

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *uploadsvc.Service
}

// Upload POST /api/upload stores the image and returns its public URL.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	f, err := readFile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	res, err := h.Service.Upload(c.UserContext(), f)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, res)
}

// Temp POST /api/upload-temp returns the image inline as a data URL.
func (h *Handlers) Temp(c *fiber.Ctx) error {
	f, err := readFile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	res, err := h.Service.Temp(f)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, res)
}

// readFile returns nil, nil when the request has no image part; the service
// reports that as "No file provided".
func readFile(c *fiber.Ctx) (*uploadsvc.File, error) {
	fh, err := c.FormFile(FormField)
	if err != nil {
		return nil, nil
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	// One byte past the larger limit is enough to reject oversize files.
	data, err := io.ReadAll(io.LimitReader(src, uploadsvc.MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	return &uploadsvc.File{Name: fh.Filename, ContentType: fh.Header.Get(fiber.HeaderContentType), Data: data}, nil
}
