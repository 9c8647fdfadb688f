package icon

import (
	"image"
	"image/color"
	"math"
)

// Theme colors from the app
var (
	accentBlue = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	breakAmber = color.RGBA{R: 0xE0, G: 0xA0, B: 0x20, A: 0xFF}
	darkBG     = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF}
	bezel      = color.RGBA{R: 0x3A, G: 0x3A, B: 0x46, A: 0xFF}
	screenDark = color.RGBA{R: 0x00, G: 0x30, B: 0x48, A: 0xFF}
	glowCol    = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0x60}
	antennaCol = color.RGBA{R: 0x90, G: 0x90, B: 0x9C, A: 0xFF}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	fillRect(img, 0, 0, size, size, darkBG)
	drawTV(img, s)
	drawBreakBadge(img, s)

	return img
}

func drawTV(img *image.RGBA, s float64) {
	// Antennas: two thin lines meeting above the cabinet
	baseX, baseY := s*0.50, s*0.26
	drawLine(img, baseX, baseY, s*0.32, s*0.06, s*0.018, antennaCol)
	drawLine(img, baseX, baseY, s*0.68, s*0.06, s*0.018, antennaCol)
	fillCircle(img, s*0.32, s*0.06, s*0.025, antennaCol)
	fillCircle(img, s*0.68, s*0.06, s*0.025, antennaCol)

	// Cabinet
	fillRoundedRect(img, s*0.08, s*0.24, s*0.84, s*0.56, s*0.08, bezel)

	// Screen with a soft glow
	fillRoundedRect(img, s*0.13, s*0.29, s*0.74, s*0.44, s*0.05, glowCol)
	fillRoundedRect(img, s*0.15, s*0.31, s*0.70, s*0.40, s*0.04, screenDark)

	// Play triangle in the middle of the screen
	cx, cy := s*0.47, s*0.51
	h := s * 0.16
	for i := 0; i < int(h); i++ {
		t := float64(i) / h
		half := (1 - t) * h * 0.55
		x := int(cx - h*0.35 + float64(i))
		for y := int(cy - half); y <= int(cy+half); y++ {
			blendPixel(img, x, y, accentBlue)
		}
	}

	// Stand
	fillRoundedRect(img, s*0.30, s*0.82, s*0.40, s*0.06, s*0.02, bezel)
}

// drawBreakBadge marks the corner of the screen like an on-air commercial tag.
func drawBreakBadge(img *image.RGBA, s float64) {
	fillCircle(img, s*0.76, s*0.36, s*0.07, breakAmber)
}

func drawLine(img *image.RGBA, x0, y0, x1, y1, width float64, c color.Color) {
	dist := math.Hypot(x1-x0, y1-y0)
	steps := int(dist)
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		fillCircle(img, x0+(x1-x0)*t, y0+(y1-y0)*t, width, c)
	}
}

func fillRect(img *image.RGBA, x0, y0, w, h int, c color.Color) {
	bounds := img.Bounds()
	for y := y0; y < y0+h && y < bounds.Max.Y; y++ {
		for x := x0; x < x0+w && x < bounds.Max.X; x++ {
			if x >= 0 && y >= 0 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillRoundedRect(img *image.RGBA, xf, yf, wf, hf, rf float64, c color.Color) {
	x0 := int(xf)
	y0 := int(yf)
	x1 := int(xf + wf)
	y1 := int(yf + hf)
	r := rf
	bounds := img.Bounds()

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			// Check if inside rounded rect
			fx := float64(x)
			fy := float64(y)
			inside := true

			// Check corners
			if fx < xf+r && fy < yf+r {
				// Top-left corner
				dx := xf + r - fx
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy < yf+r {
				// Top-right corner
				dx := fx - (xf + wf - r)
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx < xf+r && fy > yf+hf-r {
				// Bottom-left corner
				dx := xf + r - fx
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy > yf+hf-r {
				// Bottom-right corner
				dx := fx - (xf + wf - r)
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			}

			if inside {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.Color) {
	bounds := img.Bounds()
	x0 := int(cx - r)
	y0 := int(cy - r)
	x1 := int(cx + r + 1)
	y1 := int(cy + r + 1)
	r2 := r * r

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

// blendPixel alpha-blends color c onto the existing pixel at (x, y).
func blendPixel(img *image.RGBA, x, y int, c color.Color) {
	r0, g0, b0, a0 := c.RGBA()
	if a0 == 0 {
		return
	}
	if a0 == 0xFFFF {
		img.Set(x, y, c)
		return
	}

	// Existing pixel
	existing := img.RGBAAt(x, y)
	er := uint32(existing.R) * 257
	eg := uint32(existing.G) * 257
	eb := uint32(existing.B) * 257

	// Alpha blend
	alpha := a0
	invAlpha := 0xFFFF - alpha
	nr := (r0*alpha + er*invAlpha) / 0xFFFF
	ng := (g0*alpha + eg*invAlpha) / 0xFFFF
	nb := (b0*alpha + eb*invAlpha) / 0xFFFF

	img.SetRGBA(x, y, color.RGBA{
		R: uint8(nr >> 8),
		G: uint8(ng >> 8),
		B: uint8(nb >> 8),
		A: 0xFF,
	})
}
