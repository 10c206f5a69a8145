package thumbnail

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	_ "image/gif" // GIF decoder registration, first frame only
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Render decodes an image, crops it to a centered square, scales it to
// size x size with Catmull-Rom and encodes it as JPEG. Transparent areas
// come out white.
func Render(data []byte, size, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	src := img.Bounds()
	if src.Dx() == 0 || src.Dy() == 0 {
		return nil, ErrEmptyImage
	}
	side := min(src.Dx(), src.Dy())
	x0 := src.Min.X + (src.Dx()-side)/2
	y0 := src.Min.Y + (src.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
