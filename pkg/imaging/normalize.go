// Package imaging prepares product photos for upload.
package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

const (
	DefaultMaxWidth = 1200
	DefaultQuality  = 85
)

var ErrUnsupportedFormat = errors.New("unsupported image format (jpeg/png/webp)")

// NormalizeToJPEG decodes a jpeg, png or webp image, applies its EXIF
// orientation, scales it down to maxWidth and re-encodes it as JPEG.
func NormalizeToJPEG(input []byte, maxWidth int, quality int) ([]byte, error) {
	if len(input) == 0 {
		return nil, errors.New("empty image")
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	img, err := decode(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}

	img = orient(img, exifOrientation(bytes.NewReader(input)))
	if maxWidth > 0 {
		img = fitWidth(img, maxWidth)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func decode(r *bytes.Reader) (image.Image, error) {
	decoders := []func(io.Reader) (image.Image, error){jpeg.Decode, png.Decode, webp.Decode}
	for _, dec := range decoders {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		if img, err := dec(r); err == nil {
			return img, nil
		}
	}
	return nil, ErrUnsupportedFormat
}

// exifOrientation returns the EXIF orientation tag, or 1 when absent.
func exifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

// orient undoes the camera rotation described by EXIF values 2..8.
func orient(src image.Image, o int) image.Image {
	switch o {
	case 2:
		return transform(src, false, func(x, y, w, h int) (int, int) { return w - 1 - x, y })
	case 3:
		return transform(src, false, func(x, y, w, h int) (int, int) { return w - 1 - x, h - 1 - y })
	case 4:
		return transform(src, false, func(x, y, w, h int) (int, int) { return x, h - 1 - y })
	case 5:
		return transform(src, true, func(x, y, w, h int) (int, int) { return y, x })
	case 6:
		return transform(src, true, func(x, y, w, h int) (int, int) { return h - 1 - y, x })
	case 7:
		return transform(src, true, func(x, y, w, h int) (int, int) { return h - 1 - y, w - 1 - x })
	case 8:
		return transform(src, true, func(x, y, w, h int) (int, int) { return y, w - 1 - x })
	default:
		return src
	}
}

// transform copies src pixel by pixel through dst(x, y) = f(x, y). swap
// exchanges width and height for the quarter-turn orientations.
func transform(src image.Image, swap bool, f func(x, y, w, h int) (int, int)) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	rect := image.Rect(0, 0, w, h)
	if swap {
		rect = image.Rect(0, 0, h, w)
	}

	dst := image.NewRGBA(rect)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := f(x, y, w, h)
			dst.Set(dx, dy, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func fitWidth(src image.Image, maxW int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW || w <= 0 || h <= 0 {
		return src
	}

	newH := int(math.Round(float64(h) * float64(maxW) / float64(w)))
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
