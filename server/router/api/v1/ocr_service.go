package v1

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mishleyn/T-Prep/plugin/ocr"
	"github.com/Mishleyn/T-Prep/server/internal/apierrors"
)

// maxImageSize caps uploaded images at 20 MiB.
const maxImageSize = 20 << 20

type ocrResponse struct {
	Text string `json:"text"`
}

// ExtractImageText runs OCR over an uploaded image and returns the
// recognized text.
func (s *APIV1Service) ExtractImageText(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apierrors.InvalidArgument("image is required")
	}
	if fileHeader.Size > maxImageSize {
		return apierrors.InvalidArgument("image too large")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "" && !ocr.IsSupported(contentType) {
		return apierrors.UnsupportedFormat("unsupported image type " + contentType)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apierrors.Internal("failed to open uploaded image", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return apierrors.Internal("failed to read uploaded image", err)
	}
	if len(data) > maxImageSize {
		return apierrors.InvalidArgument("image too large")
	}

	if err := s.ocrSemaphore.Acquire(ctx, 1); err != nil {
		return apierrors.Internal("cancelled while waiting for OCR slot", err)
	}
	defer s.ocrSemaphore.Release(1)

	text, err := s.OCRClient.ExtractText(ctx, data)
	if err != nil {
		return apierrors.Internal("failed to extract text from image", err)
	}

	return c.JSON(http.StatusOK, ocrResponse{Text: text})
}
