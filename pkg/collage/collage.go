// Package collage tiles a directory of images into a single grid picture.
package collage

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Layout returns the grid for n tiles whose overall width/height ratio is as
// close to aspect as whole columns allow. aspect 1 gives ceil(sqrt(n))
// columns.
func Layout(n int, aspect float64) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	if aspect <= 0 {
		aspect = 1
	}
	cols = int(math.Ceil(math.Sqrt(float64(n) * aspect)))
	cols = max(1, min(cols, n))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// TileOrigin returns the top-left pixel of tile i, filled row by row.
func TileOrigin(i, cols, tileSize int) image.Point {
	return image.Pt((i%cols)*tileSize, (i/cols)*tileSize)
}

// Builder composes tiles onto a white canvas.
type Builder struct {
	TileSize int
	Aspect   float64
	Quality  int // JPEG quality, 1..100
	Logger   *slog.Logger
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// ListImages returns the regular, non-hidden files of dir in name order.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("collage: read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Build decodes every file and places it on the grid. The first file that
// cannot be decoded stops the build.
func (b *Builder) Build(paths []string) (*image.RGBA, error) {
	size := b.TileSize
	if size <= 0 {
		return nil, fmt.Errorf("collage: tile size must be positive, got %d", size)
	}
	cols, rows := Layout(len(paths), b.Aspect)
	canvas := image.NewRGBA(image.Rect(0, 0, cols*size, rows*size))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	for i, p := range paths {
		src, err := decodeFile(p)
		if err != nil {
			return nil, err
		}
		origin := TileOrigin(i, cols, size)
		Fill(canvas, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(size, size))}, src)
		b.logger().Debug("collage tile placed", "file", p, "x", origin.X, "y", origin.Y)
	}
	return canvas, nil
}

// Fill scales src so it covers dst entirely, cropping the overflow equally
// from both sides, and draws it over dst.
func Fill(canvas xdraw.Image, dst image.Rectangle, src image.Image) {
	sb := src.Bounds()
	if sb.Empty() || dst.Empty() {
		return
	}
	// Largest centred region of src with the same aspect as dst.
	crop := sb
	if sb.Dx()*dst.Dy() > sb.Dy()*dst.Dx() {
		w := sb.Dy() * dst.Dx() / dst.Dy()
		crop.Min.X = sb.Min.X + (sb.Dx()-w)/2
		crop.Max.X = crop.Min.X + w
	} else {
		h := sb.Dx() * dst.Dy() / dst.Dx()
		crop.Min.Y = sb.Min.Y + (sb.Dy()-h)/2
		crop.Max.Y = crop.Min.Y + h
	}
	xdraw.CatmullRom.Scale(canvas, dst, src, crop, xdraw.Over, nil)
}

// Write encodes img as a JPEG at path.
func (b *Builder) Write(path string, img image.Image) error {
	quality := b.Quality
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("collage: create %s: %w", path, err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return fmt.Errorf("collage: encode %s: %w", path, err)
	}
	return f.Close()
}

// Run builds a collage of every image in dir and writes it to out. It
// returns the number of tiles.
func (b *Builder) Run(dir, out string) (int, error) {
	paths, err := ListImages(dir)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("collage: no images in %s", dir)
	}
	img, err := b.Build(paths)
	if err != nil {
		return 0, err
	}
	if err := b.Write(out, img); err != nil {
		return 0, err
	}
	b.logger().Info("collage written", "file", out, "tiles", len(paths), "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return len(paths), nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("collage: open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("collage: decode %s: %w", path, err)
	}
	return img, nil
}
