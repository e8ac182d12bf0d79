package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Register decoders for the formats accepted on upload.
	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ProcessSquare decodes an image, crops it centered to a square, scales it
// to size x size and re-encodes it as JPEG. The result is deterministic
// for a given input, so re-uploads of the same file produce identical bytes.
func ProcessSquare(data []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", ErrInvalidDimensions)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil, fmt.Errorf("%w: empty image", ErrDecodeFailed)
	}

	cropped := centerSquare(bounds)
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, cropped, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return buf.Bytes(), nil
}

const jpegQuality = 90

// centerSquare returns the largest centered square within bounds.
func centerSquare(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	side := w
	if h < side {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}
