package segment

import "image"

// detectEdges runs a two-threshold hysteresis edge detector over the
// intensity gradients: Sobel gradients, L1 magnitude, non-maximum
// suppression along the gradient direction, then hysteresis linking. Pixels
// above the high threshold seed edges; pixels above the low threshold are
// kept only when 8-connected to a seed. The result marks boundaries, not
// filled regions.
func detectEdges(gray *image.Gray, params EdgeParams) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w < 3 || h < 3 {
		return dst
	}

	gx, gy, mag := sobel(gray, w, h)
	thin := nonMaxSuppress(gx, gy, mag, w, h)
	hysteresis(thin, dst, w, h, params.LowThreshold, params.HighThreshold)
	return dst
}

// sobel computes 3x3 Sobel gradients with replicated borders and the L1
// gradient magnitude.
func sobel(gray *image.Gray, w, h int) (gx, gy, mag []int) {
	gx = make([]int, w*h)
	gy = make([]int, w*h)
	mag = make([]int, w*h)

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
		return int(gray.Pix[y*gray.Stride+x])
	}

	for y := range h {
		for x := range w {
			tl, tc, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
			ml, mr := at(x-1, y), at(x+1, y)
			bl, bc, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)

			dx := (tr + 2*mr + br) - (tl + 2*ml + bl)
			dy := (bl + 2*bc + br) - (tl + 2*tc + tr)

			i := y*w + x
			gx[i] = dx
			gy[i] = dy
			mag[i] = absInt(dx) + absInt(dy)
		}
	}
	return gx, gy, mag
}

// nonMaxSuppress zeroes gradient magnitudes that are not a local maximum
// along the quantized gradient direction.
func nonMaxSuppress(gx, gy, mag []int, w, h int) []int {
	out := make([]int, w*h)
	magAt := func(x, y int) int {
		if x < 0 || x >= w || y < 0 || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	for y := range h {
		for x := range w {
			i := y*w + x
			m := mag[i]
			if m == 0 {
				continue
			}
			ax, ay := absInt(gx[i]), absInt(gy[i])

			var m1, m2 int
			switch {
			case 2*ay <= ax:
				// Mostly horizontal gradient: compare along x.
				m1, m2 = magAt(x-1, y), magAt(x+1, y)
			case 2*ax <= ay:
				// Mostly vertical gradient: compare along y.
				m1, m2 = magAt(x, y-1), magAt(x, y+1)
			case gx[i]*gy[i] > 0:
				m1, m2 = magAt(x-1, y-1), magAt(x+1, y+1)
			default:
				m1, m2 = magAt(x+1, y-1), magAt(x-1, y+1)
			}

			if m >= m1 && m >= m2 {
				out[i] = m
			}
		}
	}
	return out
}

// hysteresis links weak edge pixels to strong seeds via 8-connectivity.
func hysteresis(mag []int, dst *image.Gray, w, h, low, high int) {
	var stack [][2]int
	for y := range h {
		for x := range w {
			if mag[y*w+x] > high && dst.Pix[y*dst.Stride+x] == 0 {
				dst.Pix[y*dst.Stride+x] = 255
				stack = append(stack, [2]int{x, y})
			}
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p[0]+dx, p[1]+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if dst.Pix[ny*dst.Stride+nx] == 0 && mag[ny*w+nx] > low {
					dst.Pix[ny*dst.Stride+nx] = 255
					stack = append(stack, [2]int{nx, ny})
				}
			}
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
