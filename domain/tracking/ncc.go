package tracking

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/floats"
)

// grayPlane stores per-pixel grayscale values of an image together with their
// summed-area tables (integral images). The integrals allow O(1) window sum
// and variance queries.
type grayPlane struct {
	gray       []float64
	integral   []float64
	integralSq []float64
	W, H       int
}

// newGrayPlane converts img to luminance. Fully transparent pixels count as
// zero.
func newGrayPlane(img image.Image) *grayPlane {
	src := imaging.Clone(img)
	W, H := src.Rect.Dx(), src.Rect.Dy()
	need := W * H
	p := &grayPlane{
		gray:       make([]float64, need),
		integral:   make([]float64, need),
		integralSq: make([]float64, need),
		W:          W,
		H:          H,
	}
	for y := 0; y < H; y++ {
		var rowSum, rowSum2 float64
		row := src.Pix[y*src.Stride : y*src.Stride+W*4]
		for x := 0; x < W; x++ {
			px := row[x*4 : x*4+4]
			var g float64
			if px[3] != 0 {
				g = 0.2126*float64(px[0]) + 0.7152*float64(px[1]) + 0.0722*float64(px[2])
			}
			off := y*W + x
			p.gray[off] = g
			rowSum += g
			rowSum2 += g * g
			if y == 0 {
				p.integral[off] = rowSum
				p.integralSq[off] = rowSum2
			} else {
				p.integral[off] = p.integral[(y-1)*W+x] + rowSum
				p.integralSq[off] = p.integralSq[(y-1)*W+x] + rowSum2
			}
		}
	}
	return p
}

// windowSum returns the inclusive sum over [x0..x1] x [y0..y1].
func windowSum(I []float64, W int, x0, y0, x1, y1 int) float64 {
	if x0 > x1 || y0 > y1 {
		return 0
	}
	A := func(x, y int) float64 {
		if x < 0 || y < 0 {
			return 0
		}
		return I[y*W+x]
	}
	return A(x1, y1) - A(x0-1, y1) - A(x1, y0-1) + A(x0-1, y0-1)
}

// stats returns the mean and standard deviation of the whole plane.
func (p *grayPlane) stats() (mean, std float64) {
	n := float64(p.W * p.H)
	if n == 0 {
		return 0, 0
	}
	sum := windowSum(p.integral, p.W, 0, 0, p.W-1, p.H-1)
	sum2 := windowSum(p.integralSq, p.W, 0, 0, p.W-1, p.H-1)
	mean = sum / n
	if v := (sum2 - sum*sum/n) / n; v > 0 {
		std = math.Sqrt(v)
	}
	return mean, std
}

// MatchOptions configures normalized cross-correlation block matching.
type MatchOptions struct {
	Threshold float64 // minimum NCC score for a positive match (default 0.5)
	Stride    int     // coarse scan stride (default 1)
	Refine    bool    // when Stride>1, rescan the neighbourhood of the best window at stride 1
}

// Match is the outcome of matching a template inside a search plane.
type Match struct {
	X, Y  int
	Score float64
	Found bool
}

// matchNCC slides tmpl over search and returns the best scoring offset.
// Templates without texture cannot be matched and report Found=false.
func matchNCC(search, tmpl *grayPlane, opts MatchOptions) Match {
	res := Match{Score: -1}
	if search == nil || tmpl == nil {
		return res
	}
	W, H := search.W, search.H
	w, h := tmpl.W, tmpl.H
	if w == 0 || h == 0 || W < w || H < h {
		return res
	}
	meanT, stdT := tmpl.stats()
	if stdT <= 1e-9 {
		return res
	}
	stride := opts.Stride
	if stride <= 0 {
		stride = 1
	}
	n := float64(w * h)
	score := func(x, y int) (float64, bool) {
		sumF := windowSum(search.integral, W, x, y, x+w-1, y+h-1)
		sumF2 := windowSum(search.integralSq, W, x, y, x+w-1, y+h-1)
		meanF := sumF / n
		varF := (sumF2 - sumF*sumF/n) / n
		if varF <= 1e-9 {
			return 0, false
		}
		var sumFT float64
		for py := 0; py < h; py++ {
			off := (y+py)*W + x
			sumFT += floats.Dot(search.gray[off:off+w], tmpl.gray[py*w:(py+1)*w])
		}
		denom := n * math.Sqrt(varF) * stdT
		if denom <= 0 {
			return 0, false
		}
		return (sumFT - n*meanF*meanT) / denom, true
	}

	bestX, bestY, best := 0, 0, -1.0
	scan := func(minX, minY, maxX, maxY, step int) {
		for y := minY; y <= maxY; y += step {
			for x := minX; x <= maxX; x += step {
				s, ok := score(x, y)
				if ok && s > best {
					best, bestX, bestY = s, x, y
				}
			}
		}
	}
	scan(0, 0, W-w, H-h, stride)
	if opts.Refine && stride > 1 {
		scan(max(0, bestX-stride), max(0, bestY-stride), min(W-w, bestX+stride), min(H-h, bestY+stride), 1)
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = 0.5
	}
	res.X, res.Y, res.Score = bestX, bestY, best
	res.Found = best >= threshold
	return res
}
