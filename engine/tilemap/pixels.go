package tilemap

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/memmaker/tilenav/engine/util"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// PixelBuffer is a layered 2D pixel source addressed by (x, y) and a layer index.
// PixelBytes returns nil for pixels outside the buffer or for unknown layers.
type PixelBuffer interface {
	Size() (width, height int)
	PixelBytes(x, y, layer int) []byte
}

// ImageBuffer exposes a decoded image as a single layer of NRGBA bytes.
type ImageBuffer struct {
	img image.Image
}

func NewImageBuffer(img image.Image) ImageBuffer {
	return ImageBuffer{img: img}
}

func (b ImageBuffer) Size() (int, int) {
	bounds := b.img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

func (b ImageBuffer) PixelBytes(x, y, layer int) []byte {
	if layer != 0 {
		return nil
	}
	bounds := b.img.Bounds()
	px, py := bounds.Min.X+x, bounds.Min.Y+y
	if !(image.Point{X: px, Y: py}).In(bounds) {
		return nil
	}
	c := color.NRGBAModel.Convert(b.img.At(px, py)).(color.NRGBA)
	return []byte{c.R, c.G, c.B, c.A}
}

// RawBuffer holds tightly packed RGBA8 rows, one byte slice per layer.
type RawBuffer struct {
	Width, Height int
	Layers        [][]byte
}

func (b RawBuffer) Size() (int, int) {
	return b.Width, b.Height
}

func (b RawBuffer) PixelBytes(x, y, layer int) []byte {
	if layer < 0 || layer >= len(b.Layers) || x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return nil
	}
	offset := (y*b.Width + x) * 4
	data := b.Layers[layer]
	if offset+4 > len(data) {
		return nil
	}
	return data[offset : offset+4]
}

// ColorFromBytes interprets a pixel payload: 4 bytes RGBA, 3 bytes RGB (opaque) or
// 1 byte grey (opaque).
func ColorFromBytes(data []byte) (color.NRGBA, bool) {
	switch len(data) {
	case 4:
		return color.NRGBA{R: data[0], G: data[1], B: data[2], A: data[3]}, true
	case 3:
		return color.NRGBA{R: data[0], G: data[1], B: data[2], A: 0xff}, true
	case 1:
		return color.NRGBA{R: data[0], G: data[0], B: data[0], A: 0xff}, true
	}
	return color.NRGBA{}, false
}

// DecodeImage decodes PNG, GIF, JPEG, BMP and TIFF level maps.
func DecodeImage(r io.Reader) (ImageBuffer, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return ImageBuffer{}, errors.Wrap(err, "decode map image")
	}
	bounds := img.Bounds()
	util.LogMapDebug(fmt.Sprintf("[TileMap] Decoded %s map image %dx%d", format, bounds.Dx(), bounds.Dy()))
	return NewImageBuffer(img), nil
}
