package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/delegator/internal/element"
)

// Class names that change how an element is drawn.
const (
	ClassHover    = "hover"
	ClassSelected = "selected"
)

// Theme holds the styles used by Render.
type Theme struct {
	Normal   tcell.Style
	Hover    tcell.Style
	Selected tcell.Style
	Status   tcell.Style
}

// DefaultTheme returns the default theme.
func DefaultTheme() Theme {
	return Theme{
		Normal:   tcell.StyleDefault,
		Hover:    tcell.StyleDefault.Bold(true),
		Selected: tcell.StyleDefault.Reverse(true),
		Status:   tcell.StyleDefault.Reverse(true),
	}
}

func (th Theme) styleFor(el *element.Element) tcell.Style {
	switch {
	case el.HasClass(ClassSelected):
		return th.Selected
	case el.HasClass(ClassHover):
		return th.Hover
	default:
		return th.Normal
	}
}

// Render draws doc in paint order and status on the last row, then shows
// the screen.
func Render(screen tcell.Screen, doc *element.Document, status string, theme Theme) {
	screen.Clear()
	width, height := screen.Size()

	doc.Walk(func(el *element.Element, _ int) bool {
		drawElement(screen, el, theme.styleFor(el), width, height-1)
		return true
	})

	if height > 0 {
		drawText(screen, 0, height-1, width, status, theme.Status, true)
	}
	screen.Show()
}

func drawElement(screen tcell.Screen, el *element.Element, style tcell.Style, maxX, maxY int) {
	r := el.Bounds()
	if r.IsEmpty() {
		return
	}

	for y := r.Y; y < r.Bottom() && y < maxY; y++ {
		for x := r.X; x < r.Right() && x < maxX; x++ {
			if x >= 0 && y >= 0 {
				screen.SetContent(x, y, ' ', nil, style)
			}
		}
	}

	if r.Width < 2 || r.Height < 3 {
		drawText(screen, r.X, r.Y, min(r.Right(), maxX)-r.X, el.Label(), style, false)
		return
	}

	set := func(x, y int, ch rune) {
		if x >= 0 && y >= 0 && x < maxX && y < maxY {
			screen.SetContent(x, y, ch, nil, style)
		}
	}
	for x := r.X + 1; x < r.Right()-1; x++ {
		set(x, r.Y, tcell.RuneHLine)
		set(x, r.Bottom()-1, tcell.RuneHLine)
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		set(r.X, y, tcell.RuneVLine)
		set(r.Right()-1, y, tcell.RuneVLine)
	}
	set(r.X, r.Y, tcell.RuneULCorner)
	set(r.Right()-1, r.Y, tcell.RuneURCorner)
	set(r.X, r.Bottom()-1, tcell.RuneLLCorner)
	set(r.Right()-1, r.Bottom()-1, tcell.RuneLRCorner)

	inner := r.Inset(1)
	if inner.Y < maxY {
		drawText(screen, inner.X, inner.Y, min(inner.Right(), maxX)-inner.X, el.Label(), style, false)
	}
}

// drawText writes s at (x, y) clipped to width cells, optionally padding the
// remainder with spaces.
func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style, pad bool) {
	if width <= 0 || y < 0 {
		return
	}
	col := 0
	for _, ch := range s {
		if col >= width {
			break
		}
		if x+col >= 0 {
			screen.SetContent(x+col, y, ch, nil, style)
		}
		col++
	}
	for ; pad && col < width; col++ {
		screen.SetContent(x+col, y, ' ', nil, style)
	}
}
