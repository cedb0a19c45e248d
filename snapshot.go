package life

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	imageio "github.com/gogpu/life/internal/image"
)

// Snapshot converts RGBA float texels (4 per texel, row-major, top row
// first) to an 8-bit image. Values are clamped to [0,1].
func Snapshot(pixels []float32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height && i*4+3 < len(pixels); i++ {
		img.Pix[i*4+0] = toByte(pixels[i*4+0])
		img.Pix[i*4+1] = toByte(pixels[i*4+1])
		img.Pix[i*4+2] = toByte(pixels[i*4+2])
		img.Pix[i*4+3] = toByte(pixels[i*4+3])
	}
	return img
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ScaleSnapshot enlarges img by an integer factor with nearest-neighbor
// sampling so cells stay sharp. A scale below 1 is treated as 1.
func ScaleSnapshot(img image.Image, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// CaptionColor is the color of snapshot captions.
var CaptionColor color.Color = colornames.Gold

// CaptionHeight is the height in pixels of the band WithCaption adds.
const CaptionHeight = 16

// WithCaption returns img extended by a black band of CaptionHeight rows at
// the bottom, with text drawn in it. The cells above are left untouched.
func WithCaption(img image.Image, text string) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+CaptionHeight))
	draw.Draw(out, out.Bounds(), image.NewUniform(colornames.Black), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(CaptionColor),
		Face: face,
		Dot:  fixed.P(2, out.Bounds().Max.Y-face.Descent-1),
	}
	d.DrawString(text)
	return out
}

// SaveSnapshot scales img, adds the caption band when caption is not empty
// and writes it to path. The format is chosen by extension: .png, .jpg,
// .bmp, .tif or .pgm.
func SaveSnapshot(path string, img image.Image, scale int, caption string) error {
	out := ScaleSnapshot(img, scale)
	if caption != "" {
		out = WithCaption(out, caption)
	}
	if err := imageio.Save(path, out); err != nil {
		return fmt.Errorf("life: save snapshot: %w", err)
	}
	Logger().Debug("life: snapshot saved", "path", path, "scale", scale)
	return nil
}
