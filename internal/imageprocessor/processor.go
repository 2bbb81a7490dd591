package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

// AvatarSize - сторона квадратного аватара в пикселях
const AvatarSize = 400

// Processor handles image processing operations
type Processor struct {
	quality int // JPEG quality (1-100)
}

// NewProcessor creates a new image processor
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality: quality,
	}
}

// Avatar decodes a JPEG or PNG, crops it to a centered square and encodes a JPEG of at most AvatarSize
func (p *Processor) Avatar(reader io.Reader) (*bytes.Buffer, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	square := cropSquare(img)
	side := square.Dx()
	if side > AvatarSize {
		side = AvatarSize
	}

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	// прозрачность PNG заливается белым, JPEG ее не поддерживает
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, square, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return &buf, nil
}

// cropSquare returns the centered square region of the image
func cropSquare(img image.Image) image.Rectangle {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return b
	}
	if w > h {
		x0 := b.Min.X + (w-h)/2
		return image.Rect(x0, b.Min.Y, x0+h, b.Max.Y)
	}
	y0 := b.Min.Y + (h-w)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+w)
}
