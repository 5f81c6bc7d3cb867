// Package imageio bridges the "external image I/O library" spec.md
// names as an out-of-scope collaborator: it decodes PNG/BMP files (or
// any already-decoded image.Image) into an RGBA8Straight ImageBuffer a
// SourceNode can wrap, and the reverse for writing results back out.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"

	"github.com/ainyan03/fleximg-go"
)

// Load decodes r (sniffing PNG vs BMP by file signature) into an RGBA8
// straight-alpha ImageBuffer.
func Load(r io.Reader, alloc fleximg.Allocator) (*fleximg.ImageBuffer, error) {
	img, _, err := decodeAny(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return FromImage(img, alloc), nil
}

// LoadFile opens and decodes path via Load.
func LoadFile(path string, alloc fleximg.Allocator) (*fleximg.ImageBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: %w", err)
	}
	defer f.Close()
	return Load(f, alloc)
}

func decodeAny(r io.Reader) (image.Image, string, error) {
	buf := make([]byte, 512)
	n, _ := io.ReadFull(r, buf)
	header := buf[:n]
	chained := io.MultiReader(bytes.NewReader(header), r)

	if len(header) >= 8 && string(header[1:4]) == "PNG" {
		img, err := png.Decode(chained)
		return img, "png", err
	}
	if len(header) >= 2 && header[0] == 'B' && header[1] == 'M' {
		img, err := bmp.Decode(chained)
		return img, "bmp", err
	}
	img, err := png.Decode(chained)
	return img, "png", err
}

// FromImage copies a standard library image.Image into a freshly
// allocated RGBA8Straight ImageBuffer.
func FromImage(img image.Image, alloc fleximg.Allocator) *fleximg.ImageBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := fleximg.NewImageBuffer(w, h, fleximg.RGBA8Straight, fleximg.Uninitialized, alloc, nil)

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		tmp := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(tmp, tmp.Bounds(), img, bounds.Min, draw.Src)
		nrgba = tmp
	}
	for y := 0; y < h; y++ {
		srcOff := (y) * nrgba.Stride
		dstRow := buf.Row(y)
		copy(dstRow, nrgba.Pix[srcOff:srcOff+w*4])
	}
	return buf
}

// Save encodes an RGBA8Straight ImageBuffer's current contents as PNG.
func Save(buf *fleximg.ImageBuffer, w io.Writer) error {
	img := ToImage(buf)
	return png.Encode(w, img)
}

// SaveFile creates path and writes buf to it as PNG via Save.
func SaveFile(buf *fleximg.ImageBuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: %w", err)
	}
	defer f.Close()
	return Save(buf, f)
}

// ToImage converts an ImageBuffer (any pixel format) to a standard
// library *image.RGBA by straightening every pixel and then
// premultiplying it, as image.RGBA stores alpha premultiplied.
func ToImage(buf *fleximg.ImageBuffer) *image.RGBA {
	w, h := buf.Width(), buf.Height()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := buf.PixelAt(x, y)
			out.Set(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return out
}
