package ui

import "image/color"

// Colors: dark TV theme with a blue accent
var (
	ColorBackground    = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF}
	ColorSurface       = color.RGBA{R: 0x1C, G: 0x1C, B: 0x24, A: 0xFF}
	ColorSurfaceHover  = color.RGBA{R: 0x28, G: 0x28, B: 0x34, A: 0xFF}
	ColorPrimary       = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	ColorText          = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	ColorTextSecondary = color.RGBA{R: 0x90, G: 0x90, B: 0x9C, A: 0xFF}
	ColorTextMuted     = color.RGBA{R: 0x60, G: 0x60, B: 0x6C, A: 0xFF}
	ColorOverlay       = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xC0}
	ColorCommercial    = color.RGBA{R: 0xE0, G: 0xA0, B: 0x20, A: 0xFF}
)

// Layout constants, in 1920x1080 units
const (
	ControlsHeight   = 72
	ControlsPadding  = 24
	ButtonWidth      = 140
	ButtonHeight     = 44
	ButtonGap        = 16
	FramePadding     = 4
	TimeTextMargin   = 12
	LabelPaddingX    = 18
	LabelPaddingY    = 10
	LabelMargin      = 32
	FontSizeTitle    = 28
	FontSizeBody     = 18
	FontSizeSmall    = 14
)
