// Package imaging implements the raster operations used by the
// classifier and the raster pipeline: grayscale conversion, a
// Canny-style edge map, adaptive mean binarization and PNG output.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/imgio"
)

// Grayscale converts an image to 8-bit grayscale.
func Grayscale(img image.Image) *image.Gray {
	rgba := effect.Grayscale(img)
	b := rgba.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// Channels are equal after grayscale conversion; take red.
			gray.SetGray(x, y, color.Gray{Y: rgba.RGBAAt(x, y).R})
		}
	}
	return gray
}

// EdgeMap computes a Canny-style edge map: Sobel gradient magnitude with
// double thresholding. Pixels with magnitude >= high are edges; pixels in
// [low, high) are promoted when 8-adjacent to a strong edge. Full
// hysteresis tracking is intentionally not implemented, the classifier
// only consumes the aggregate density.
func EdgeMap(img image.Image, low, high int) *image.Gray {
	gray := Grayscale(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	mag := sobelMagnitude(gray)

	edges := image.NewGray(image.Rect(0, 0, w, h))
	// Strong edges first.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mag[y][x] >= high {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	// Promote weak edges adjacent to a strong one.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mag[y][x] < low || mag[y][x] >= high {
				continue
			}
			if hasStrongNeighbor(mag, x, y, w, h, high) {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return edges
}

// EdgeDensity returns the fraction of non-zero pixels in an edge map.
func EdgeDensity(edges *image.Gray) float64 {
	b := edges.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	count := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if edges.GrayAt(x, y).Y != 0 {
				count++
			}
		}
	}
	return float64(count) / float64(total)
}

// AdaptiveThreshold binarizes a grayscale image against the mean of its
// blockSize x blockSize neighborhood minus c: pixels above go white, the
// rest black. blockSize must be odd. Neighborhoods are clipped at the
// image border.
func AdaptiveThreshold(gray *image.Gray, blockSize, c int) (*image.Gray, error) {
	if blockSize < 3 || blockSize%2 == 0 {
		return nil, fmt.Errorf("block size must be odd and >= 3, got %d", blockSize)
	}

	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out, nil
	}

	// Summed-area table, one row/col of zero padding.
	integral := make([][]int, h+1)
	for i := range integral {
		integral[i] = make([]int, w+1)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := int(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			integral[y+1][x+1] = v + integral[y][x+1] + integral[y+1][x] - integral[y][x]
		}
	}

	r := blockSize / 2
	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-r), min(h-1, y+r)
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-r), min(w-1, x+r)
			sum := integral[y1+1][x1+1] - integral[y0][x1+1] - integral[y1+1][x0] + integral[y0][x0]
			count := (y1 - y0 + 1) * (x1 - x0 + 1)
			mean := sum / count

			v := int(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			if v > mean-c {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out, nil
}

// SavePNG writes an image as PNG.
func SavePNG(path string, img image.Image) error {
	return imgio.Save(path, img, imgio.PNGEncoder())
}

// sobelMagnitude returns per-pixel gradient magnitudes clamped to 255,
// with border pixels handled by clamping sample coordinates.
func sobelMagnitude(gray *image.Gray) [][]int {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	at := func(x, y int) int {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return int(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
	}

	mag := make([][]int, h)
	for y := 0; y < h; y++ {
		mag[y] = make([]int, w)
		for x := 0; x < w; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			m := int(math.Round(math.Sqrt(float64(gx*gx + gy*gy))))
			if m > 255 {
				m = 255
			}
			mag[y][x] = m
		}
	}
	return mag
}

func hasStrongNeighbor(mag [][]int, x, y, w, h, high int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if mag[ny][nx] >= high {
				return true
			}
		}
	}
	return false
}
