// Package preview draws the resolved schedule: as a PNG strip for sharing
// and as terminal rows for the editor.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/tweenline/internal/position"
	"github.com/ivlev/tweenline/internal/system"
	"github.com/ivlev/tweenline/internal/tween"
)

const (
	rulerHeight = 24
	maxRow      = 28
	margin      = 8
)

var (
	background = color.RGBA{0x11, 0x18, 0x27, 0xff}
	rulerColor = color.RGBA{0x37, 0x41, 0x51, 0xff}
	textColor  = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	headColor  = color.RGBA{0xef, 0x44, 0x44, 0xff}
)

// Options control the PNG strip.
type Options struct {
	Width, Height int
	Playhead      float64
	ShowPlayhead  bool
}

// Render draws tweens at their resolved starts into a canvas from pool. The
// caller returns it with pool.Put when done.
func Render(pool *system.ImagePool, tweens []tween.Tween, opts Options) *image.RGBA {
	w, h := opts.Width, opts.Height
	if w <= 2*margin {
		w = 1280
	}
	if h <= rulerHeight {
		h = 360
	}
	img := pool.Get(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(background), image.Point{}, draw.Src)

	res := position.Resolve(items(tweens))
	span := position.DisplayDuration(res.End)
	scale := float64(w-2*margin) / span
	xAt := func(t float64) int { return margin + int(math.Round(t*scale)) }

	drawRuler(img, span, xAt)

	if n := len(tweens); n > 0 {
		row := (h - rulerHeight) / n
		if row > maxRow {
			row = maxRow
		}
		if row < 2 {
			row = 2
		}
		for i, t := range tweens {
			y0 := rulerHeight + i*row
			if y0 >= h {
				break
			}
			x0 := xAt(res.Starts[i])
			x1 := xAt(res.Starts[i] + t.Duration)
			if x1 <= x0 {
				x1 = x0 + 1
			}
			bar := image.Rect(x0, y0+1, x1, y0+row-1)
			draw.Draw(img, bar, image.NewUniform(ParseColor(t.Color, i)), image.Point{}, draw.Src)
			if row >= 14 {
				label(img, x0+3, y0+row/2+4, t.Name(), x1-x0-6)
			}
		}
	}

	if opts.ShowPlayhead {
		x := xAt(math.Max(0, opts.Playhead))
		draw.Draw(img, image.Rect(x, 0, x+2, h), image.NewUniform(headColor), image.Point{}, draw.Src)
	}
	return img
}

// RenderPNG encodes the strip as PNG into w.
func RenderPNG(w io.Writer, tweens []tween.Tween, opts Options) error {
	pool := system.SharedImagePool()
	img := Render(pool, tweens, opts)
	defer pool.Put(img)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

func drawRuler(img *image.RGBA, span float64, xAt func(float64) int) {
	draw.Draw(img, image.Rect(0, rulerHeight-1, img.Rect.Dx(), rulerHeight), image.NewUniform(rulerColor), image.Point{}, draw.Src)
	step := TickStep(span)
	for t := 0.0; t <= span+1e-9; t += step {
		x := xAt(t)
		draw.Draw(img, image.Rect(x, rulerHeight-8, x+1, rulerHeight), image.NewUniform(rulerColor), image.Point{}, draw.Src)
		label(img, x+2, 13, strconv.FormatFloat(t, 'f', -1, 64)+"s", 0)
	}
}

// TickStep picks a ruler spacing that gives at most about ten ticks.
func TickStep(span float64) float64 {
	for _, s := range []float64{0.5, 1, 2, 5, 10, 30, 60} {
		if span/s <= 10 {
			return s
		}
	}
	return math.Ceil(span/600) * 60
}

// label draws text at (x, baseline y), cut to maxWidth pixels when positive.
func label(img *image.RGBA, x, y int, text string, maxWidth int) {
	face := basicfont.Face7x13
	if maxWidth > 0 {
		r := []rune(text)
		for len(r) > 0 && font.MeasureString(face, string(r)).Ceil() > maxWidth {
			r = r[:len(r)-1]
		}
		text = string(r)
	}
	if text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// ParseColor reads "#rrggbb" or "#rgb"; anything else takes the palette
// color for index i.
func ParseColor(s string, i int) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		if v, err := strconv.ParseUint(s, 16, 32); err == nil {
			return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
		}
	}
	if i < 0 {
		i = 0
	}
	return ParseColor(tween.Palette[i%len(tween.Palette)], 0)
}

// ColorHex is ParseColor as "#rrggbb", for terminal styles.
func ColorHex(s string, i int) string {
	c := ParseColor(s, i)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func items(ts []tween.Tween) []position.Item {
	out := make([]position.Item, len(ts))
	for i, t := range ts {
		out[i] = position.Item{Position: t.Position, Duration: t.Duration}
	}
	return out
}
