// Package term draws a world.View onto a tcell screen. The field is scaled to
// the screen minus one status row; screen rows grow downward with world y.
package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"

	"exolore.ai/internal/sim/world"
)

const (
	runeRobot    = '@'
	runeObstacle = '#'
	runeTrail    = '.'
)

var (
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleClaimed  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleMoving   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleSeeking  = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleTrail    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// Status is the extra information shown in the bottom row.
type Status struct {
	Paused  bool
	Metrics world.WorldMetrics
}

type Renderer struct {
	screen tcell.Screen
}

func New(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Draw clears the screen, paints v and shows the result.
func (r *Renderer) Draw(v world.View, st Status) {
	r.screen.Clear()
	cols, rows := r.screen.Size()
	fieldRows := rows - 1
	if cols <= 0 || fieldRows <= 0 {
		r.screen.Show()
		return
	}
	p := projection{field: v.Field, cols: cols, rows: fieldRows}

	for _, rb := range v.Robots {
		if !rb.HasTarget() {
			continue
		}
		x0, y0, ok0 := p.cell(rb.Pos)
		x1, y1, ok1 := p.cell(rb.TargetPos)
		if !ok0 || !ok1 {
			continue
		}
		line(x0, y0, x1, y1, func(x, y int) {
			if (x == x0 && y == y0) || (x == x1 && y == y1) {
				return
			}
			r.screen.SetContent(x, y, runeTrail, nil, styleTrail)
		})
	}
	for _, o := range v.Obstacles {
		x, y, ok := p.cell(o.Pos)
		if !ok {
			continue
		}
		style := styleObstacle
		if o.ClaimedBy != 0 {
			style = styleClaimed
		}
		r.screen.SetContent(x, y, runeObstacle, nil, style)
	}
	for _, rb := range v.Robots {
		x, y, ok := p.cell(rb.Pos)
		if !ok {
			continue
		}
		style := styleSeeking
		if rb.HasTarget() {
			style = styleMoving
		}
		r.screen.SetContent(x, y, runeRobot, nil, style)
	}

	r.drawStatus(cols, rows-1, v, st)
	r.screen.Show()
}

func (r *Renderer) drawStatus(cols, y int, v world.View, st Status) {
	targeted := 0
	for _, rb := range v.Robots {
		if rb.HasTarget() {
			targeted++
		}
	}
	text := fmt.Sprintf("tick=%d robots=%d targeted=%d obstacles=%d step=%.2fms",
		v.Tick, len(v.Robots), targeted, len(v.Obstacles), st.Metrics.StepMS)
	if st.Paused {
		text += " [paused]"
	}
	x := 0
	for _, ch := range text {
		if x >= cols {
			break
		}
		r.screen.SetContent(x, y, ch, nil, styleStatus)
		x++
	}
	for ; x < cols; x++ {
		r.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
}

type projection struct {
	field      orb.Bound
	cols, rows int
}

// cell maps a world point to a screen cell; points outside the field are not drawn.
func (p projection) cell(pt orb.Point) (x, y int, ok bool) {
	w := p.field.Max.X() - p.field.Min.X()
	h := p.field.Max.Y() - p.field.Min.Y()
	if w <= 0 || h <= 0 || !p.field.Contains(pt) {
		return 0, 0, false
	}
	x = int(math.Floor((pt.X() - p.field.Min.X()) / w * float64(p.cols)))
	y = int(math.Floor((pt.Y() - p.field.Min.Y()) / h * float64(p.rows)))
	// The far edge belongs to the last cell.
	if x >= p.cols {
		x = p.cols - 1
	}
	if y >= p.rows {
		y = p.rows - 1
	}
	return x, y, true
}

// line visits every cell of a Bresenham line from (x0,y0) to (x1,y1).
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
