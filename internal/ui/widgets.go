package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Rect is an area of the screen in layout pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies in r.
func (r Rect) Contains(px, py int) bool {
	return PointInRect(px, py, r.X, r.Y, r.W, r.H)
}

func PointInRect(px, py int, rx, ry, rw, rh float64) bool {
	return float64(px) >= rx && float64(px) <= rx+rw &&
		float64(py) >= ry && float64(py) <= ry+rh
}

// VideoFrame outlines where the video is shown. In fullscreen the whole
// screen belongs to the video and nothing is drawn.
type VideoFrame struct {
	Windowed   Rect
	fullscreen bool
}

func (v *VideoFrame) SetFullscreen(on bool) { v.fullscreen = on }

func (v *VideoFrame) Fullscreen() bool { return v.fullscreen }

func (v *VideoFrame) Draw(dst *ebiten.Image) {
	if v.fullscreen {
		return
	}
	r := v.Windowed
	p := float32(FramePadding)
	vector.StrokeRect(dst, float32(r.X)-p, float32(r.Y)-p, float32(r.W)+2*p, float32(r.H)+2*p, 2, ColorSurfaceHover, false)
}

type controlButton struct {
	label  string
	action Action
}

var controlButtons = []controlButton{
	{"Play", ActionPlay},
	{"Pause", ActionPause},
	{"Stop", ActionStop},
	{"REW", ActionRewind},
	{"FF", ActionFastForward},
	{"Fullscreen", ActionFullscreen},
}

// ControlsBar is the row of transport buttons under the video. It is
// hidden while the video is fullscreen.
type ControlsBar struct {
	// Y is the top edge of the bar; CenterX is the horizontal center.
	Y, CenterX float64
	fullscreen bool
	hover      int
}

func NewControlsBar() *ControlsBar {
	return &ControlsBar{hover: -1}
}

func (c *ControlsBar) SetFullscreen(on bool) { c.fullscreen = on }

// buttonRects lays the buttons out centered on CenterX.
func (c *ControlsBar) buttonRects() []Rect {
	n := float64(len(controlButtons))
	total := n*ButtonWidth + (n-1)*ButtonGap
	x := c.CenterX - total/2
	y := c.Y + (ControlsHeight-ButtonHeight)/2
	rects := make([]Rect, len(controlButtons))
	for i := range controlButtons {
		rects[i] = Rect{X: x, Y: y, W: ButtonWidth, H: ButtonHeight}
		x += ButtonWidth + ButtonGap
	}
	return rects
}

// Hit returns the action of the button at (mx, my).
func (c *ControlsBar) Hit(mx, my int) Action {
	if c.fullscreen {
		return ActionNone
	}
	for i, r := range c.buttonRects() {
		if r.Contains(mx, my) {
			return controlButtons[i].action
		}
	}
	return ActionNone
}

// Hover records the button under the cursor for highlighting.
func (c *ControlsBar) Hover(mx, my int) {
	c.hover = -1
	for i, r := range c.buttonRects() {
		if r.Contains(mx, my) {
			c.hover = i
			return
		}
	}
}

func (c *ControlsBar) Draw(dst *ebiten.Image) {
	if c.fullscreen {
		return
	}
	for i, r := range c.buttonRects() {
		bg := ColorSurface
		fg := ColorText
		if i == c.hover {
			bg = ColorPrimary
			fg = ColorBackground
		}
		vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), bg, false)
		vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, ColorTextMuted, false)
		DrawTextCentered(dst, controlButtons[i].label, r.X+r.W/2, r.Y+r.H/2, FontSizeBody, fg)
	}
}

// TimeText shows "elapsed / duration" at the bottom left of the video area.
type TimeText struct {
	Windowed   Rect
	Screen     Rect
	text       string
	fullscreen bool
}

func (t *TimeText) SetText(s string) { t.text = s }
func (t *TimeText) Text() string { return t.text }
func (t *TimeText) SetFullscreen(on bool) { t.fullscreen = on }

func (t *TimeText) Draw(dst *ebiten.Image) {
	if t.text == "" {
		return
	}
	area := t.Windowed
	if t.fullscreen {
		area = t.Screen
	}
	_, h := MeasureText(t.text, FontSizeBody)
	x := area.X + TimeTextMargin
	y := area.Y + area.H - h - TimeTextMargin
	w, _ := MeasureText(t.text, FontSizeBody)
	vector.DrawFilledRect(dst, float32(x-6), float32(y-4), float32(w+12), float32(h+8), ColorOverlay, false)
	DrawText(dst, t.text, x, y, FontSizeBody, ColorText)
}

// CommercialLabel is the banner shown while a break is on air.
type CommercialLabel struct {
	Text    string
	Screen  Rect
	visible bool
}

func (l *CommercialLabel) SetVisible(on bool) { l.visible = on }

func (l *CommercialLabel) Visible() bool { return l.visible }

func (l *CommercialLabel) Draw(dst *ebiten.Image) {
	if !l.visible {
		return
	}
	txt := l.Text
	if txt == "" {
		txt = "Commercial"
	}
	w, h := MeasureText(txt, FontSizeTitle)
	x := l.Screen.X + l.Screen.W - w - LabelMargin - 2*LabelPaddingX
	y := l.Screen.Y + LabelMargin
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w+2*LabelPaddingX), float32(h+2*LabelPaddingY), ColorOverlay, false)
	DrawText(dst, txt, x+LabelPaddingX, y+LabelPaddingY, FontSizeTitle, ColorCommercial)
}
