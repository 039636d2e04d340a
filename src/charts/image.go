package charts

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	titleHeight  = 30
	footerHeight = 22
	footerInset  = 8
)

var (
	footerBackground = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
	footerRule       = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	footerText       = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
)

// compose lays tiles out row-major in the figure's grid on a white canvas, with the
// figure title (if any) in a strip across the top.
func compose(fig Figure, tiles []image.Image, w, h int) image.Image {
	if len(tiles) == 1 && fig.Title == "" {
		return tiles[0]
	}
	cols, rows := fig.columns(), fig.rows()
	top := 0
	if fig.Title != "" {
		top = titleHeight
	}
	canvas := blank(cols*w, top+rows*h)
	for i, t := range tiles {
		x := (i % cols) * w
		y := top + (i/cols)*h
		draw.Draw(canvas, image.Rect(x, y, x+w, y+h), t, t.Bounds().Min, draw.Src)
	}
	if top > 0 {
		drawTitle(canvas, fig.Title)
	}
	return canvas
}

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func drawTitle(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.Black, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := (img.Bounds().Dx() - tw) / 2
	if x < 8 {
		x = 8
	}
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I((titleHeight + face.Metrics().Ascent.Ceil()) / 2)}
	dr.DrawString(text)
}

// withFooter returns img extended by a light strip underneath carrying text on one line,
// cut with "..." when it is wider than the image.
func withFooter(img image.Image, text string) image.Image {
	text = strings.TrimSpace(text)
	if img == nil || text == "" {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+footerHeight))
	draw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)
	strip := image.Rect(0, b.Dy(), b.Dx(), b.Dy()+footerHeight)
	draw.Draw(out, strip, image.NewUniform(footerBackground), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, b.Dy(), b.Dx(), b.Dy()+1), image.NewUniform(footerRule), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: out, Src: image.NewUniform(footerText), Face: face}
	text = fitText(dr, text, b.Dx()-2*footerInset)
	baseline := b.Dy() + (footerHeight+face.Metrics().Ascent.Ceil())/2
	dr.Dot = fixed.Point26_6{X: fixed.I(footerInset), Y: fixed.I(baseline)}
	dr.DrawString(text)
	return out
}

func fitText(dr *font.Drawer, text string, max int) string {
	if dr.MeasureString(text).Ceil() <= max {
		return text
	}
	r := []rune(text)
	for len(r) > 0 && dr.MeasureString(string(r)+"...").Ceil() > max {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
