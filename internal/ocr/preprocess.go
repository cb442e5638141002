package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	contrastFactor  = 1.5
	sharpenAmount   = 2.0
	upscaleFactor   = 2
	preprocessMaxPx = 4000 // skip upscaling beyond this edge length
)

// Preprocess enhances a page image for the local OCR engine: grayscale,
// contrast stretch, unsharp mask, then a 2x Catmull-Rom upscale. Returns a
// PNG encoding of the result.
func Preprocess(img []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	gray := toGray(src)
	adjustContrast(gray, contrastFactor)
	sharpened := sharpen(gray, sharpenAmount)

	out := image.Image(sharpened)
	b := sharpened.Bounds()
	if b.Dx() < preprocessMaxPx && b.Dy() < preprocessMaxPx {
		scaled := image.NewGray(image.Rect(0, 0, b.Dx()*upscaleFactor, b.Dy()*upscaleFactor))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), sharpened, b, xdraw.Over, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(gray, gray.Bounds(), src, b.Min, xdraw.Src)
	return gray
}

// adjustContrast stretches pixel values around mid-gray in place.
func adjustContrast(img *image.Gray, factor float64) {
	for i, v := range img.Pix {
		img.Pix[i] = clamp((float64(v)-128)*factor + 128)
	}
}

// sharpen applies an unsharp mask with a 3x3 box blur.
func sharpen(img *image.Gray, amount float64) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	copy(out.Pix, img.Pix)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var sum int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sum += int(img.GrayAt(x+dx, y+dy).Y)
				}
			}
			blur := float64(sum) / 9
			orig := float64(img.GrayAt(x, y).Y)
			out.SetGray(x, y, color.Gray{Y: clamp(orig + (orig-blur)*amount)})
		}
	}
	return out
}

func clamp(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
