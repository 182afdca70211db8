package services

import (
	"bytes"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rpupo63/portfolio-cms-backend/errs"
)

const DefaultThumbnailWidth = 1200

// ThumbnailProcessor normalizes uploaded cover images: wider images are scaled down to MaxWidth
// keeping the aspect ratio, and everything is re-encoded as JPEG.
type ThumbnailProcessor struct {
	MaxWidth int
	Quality  int
}

func NewThumbnailProcessor(maxWidth int) *ThumbnailProcessor {
	if maxWidth < 1 {
		maxWidth = DefaultThumbnailWidth
	}
	return &ThumbnailProcessor{MaxWidth: maxWidth, Quality: 85}
}

// Process returns the encoded image and its content type
func (p *ThumbnailProcessor) Process(src io.Reader) ([]byte, string, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", errs.NewImageProcessingError(err)
	}
	if img.Bounds().Dx() > p.MaxWidth {
		img = imaging.Resize(img, p.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return nil, "", errs.NewImageProcessingError(err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
