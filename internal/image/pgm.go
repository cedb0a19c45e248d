package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/spakin/netpbm"
)

// ErrBadPGM is returned for malformed PGM data.
var ErrBadPGM = errors.New("image: malformed PGM")

// DecodePGM decodes a binary (P5) or plain (P2) graymap. Sample values are
// rescaled from maxval to 0-255.
func DecodePGM(r io.Reader) (*image.Gray, error) {
	src, err := netpbm.Decode(r, &netpbm.DecodeOptions{Target: netpbm.PGM, Exact: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPGM, err)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %dx%d raster", ErrBadPGM, b.Dx(), b.Dy())
	}
	img := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetGray(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(src.At(x, y)).(color.Gray))
		}
	}
	return img, nil
}

// EncodePGM writes img as an 8-bit binary (P5) graymap.
func EncodePGM(w io.Writer, img image.Image) error {
	return netpbm.Encode(w, img, &netpbm.EncodeOptions{Format: netpbm.PGM, MaxValue: 255})
}
