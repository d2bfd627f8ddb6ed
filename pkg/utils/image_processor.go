package utils

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"mime/multipart"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"kalabin-backend/pkg/logger"
)

const (
	maxImageWidth = 2000
	webpQuality   = 85
)

// ProcessImage decodes an uploaded image, caps its width, and re-encodes it
// as lossy WebP. When the WebP encoder fails it falls back to JPEG rather
// than rejecting the upload. Returns the encoded bytes and their MIME type.
func ProcessImage(file multipart.File, filename string) ([]byte, string, error) {
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", err
	}
	logger.Get().Debug().Str("file", filename).Str("format", format).Msg("processing image")

	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		logger.Get().Warn().Err(err).Str("file", filename).Msg("webp encoding failed, falling back to jpeg")
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: webpQuality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}

	return buf.Bytes(), "image/webp", nil
}
