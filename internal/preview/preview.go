// Package preview loads a selected image for display in the terminal.
package preview

import (
	"errors"
	"image"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"ocrclip/internal/apperr"
)

// Extensions lists the file types offered when picking an image.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}

// ramp maps brightness to characters, darkest first.
const ramp = "@%#*+=-:. "

// Image is a decoded image plus its metadata.
type Image struct {
	Path   string
	Width  int
	Height int
	Format string

	img image.Image
}

// Supported reports whether path has one of Extensions.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load decodes the image at path.
//
// # Errors
//
//   - IO kind if the file cannot be opened
//   - ImageProcessing kind if the content is not a decodable image
func Load(path string) (*Image, error) {
	const op = "preview.Load"

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, apperr.Wrap(apperr.IO, op, err, "cannot open image")
		}
		return nil, apperr.Wrap(apperr.ImageProcessing, op, err, "cannot load image")
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = f.String()
	}

	bounds := img.Bounds()
	return &Image{
		Path:   path,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
		img:    img,
	}, nil
}

// ASCII renders a grayscale thumbnail cols characters wide. Terminal cells are
// about twice as tall as wide, so rows are halved.
func (p *Image) ASCII(cols int) string {
	if p == nil || p.img == nil || cols <= 0 || p.Width == 0 || p.Height == 0 {
		return ""
	}
	if cols > p.Width {
		cols = p.Width
	}
	rows := p.Height * cols / p.Width / 2
	if rows < 1 {
		rows = 1
	}

	thumb := imaging.Grayscale(imaging.Resize(p.img, cols, rows, imaging.Box))

	var b strings.Builder
	b.Grow((cols + 1) * rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			// Grayscale leaves R == G == B.
			v := thumb.Pix[y*thumb.Stride+x*4]
			b.WriteByte(ramp[int(v)*(len(ramp)-1)/255])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
