package segment

import "image"

// OtsuThreshold computes the global threshold maximizing between-class
// intensity variance over the 256-bin histogram. Ties resolve to the lowest
// threshold value achieving the maximum.
func OtsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	total := w * h
	for y := range h {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for _, v := range row {
			hist[v]++
		}
	}
	if total == 0 {
		return 0
	}

	sum := 0.0
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var (
		best    uint8
		bestVar = -1.0
		weightB = 0
		sumB    = 0.0
	)
	for t := range 256 {
		weightB += hist[t]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)
		diff := meanB - meanF
		v := float64(weightB) * float64(weightF) * diff * diff
		if v > bestVar {
			bestVar = v
			best = uint8(t)
		}
	}
	return best
}

// thresholdOtsu binarizes with the Otsu threshold in inverse mode: pixels at
// or below the threshold (dark objects on a light background) become
// foreground 255.
func thresholdOtsu(gray *image.Gray) *image.Gray {
	t := OtsuThreshold(gray)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x, v := range src {
			if v <= t {
				out[x] = 255
			}
		}
	}
	return dst
}
