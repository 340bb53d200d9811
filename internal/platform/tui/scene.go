package tui

import (
	"math"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/core"
	"github.com/vovakirdan/tui-archery/internal/sim"
)

// Rows reserved above and below the playfield.
const (
	hudRows    = 1
	footerRows = 1
)

// Projection maps world coordinates onto a rectangle of screen cells.
// The band above the world (the top margin) is visible too, so arrows
// can be followed until they leave through the ceiling.
type Projection struct {
	world config.World
	left  int
	top   int
	cols  int
	rows  int
}

// NewProjection fits the world into cols×rows cells starting at (left, top).
func NewProjection(world config.World, left, top, cols, rows int) Projection {
	return Projection{world: world, left: left, top: top, cols: cols, rows: rows}
}

// Cell returns the screen cell for a world point and whether it is visible.
func (p Projection) Cell(v core.Vec2) (x, y int, ok bool) {
	if p.cols <= 0 || p.rows <= 0 || !v.IsFinite() {
		return 0, 0, false
	}
	span := p.world.Height + p.world.TopMargin
	fx := v.X / p.world.Width * float64(p.cols)
	fy := (v.Y + p.world.TopMargin) / span * float64(p.rows)
	if fx < 0 || fy < 0 || fx >= float64(p.cols) || fy >= float64(p.rows) {
		return 0, 0, false
	}
	return p.left + int(fx), p.top + int(fy), true
}

// center returns the world point at the middle of a screen cell.
func (p Projection) center(x, y int) core.Vec2 {
	span := p.world.Height + p.world.TopMargin
	wx := (float64(x-p.left) + 0.5) / float64(p.cols) * p.world.Width
	wy := (float64(y-p.top)+0.5)/float64(p.rows)*span - p.world.TopMargin
	return core.V(wx, wy)
}

// Scene is everything the viewer draws for one frame.
type Scene struct {
	Config   config.Archery
	Frame    sim.Snapshot
	Trail    []core.Vec2
	HUD      string
	Footer   string
	HUDColor core.Color
}

// Draw renders the scene into the screen buffer.
func (sc Scene) Draw(s *core.Screen) {
	s.Clear()
	rows := s.Height() - hudRows - footerRows
	if rows <= 0 || s.Width() <= 0 {
		s.DrawText(0, 0, sc.HUD)
		return
	}
	p := NewProjection(sc.Config.World, 0, hudRows, s.Width(), rows)

	sc.drawGround(s, p)
	sc.drawTarget(s, p)

	if x, y, ok := p.Cell(core.V(sc.Config.Launch.X, sc.Config.Launch.Y)); ok {
		s.SetColor(x, y, '^', core.ColorYellow)
	}
	for _, v := range sc.Trail {
		if x, y, ok := p.Cell(v); ok {
			s.SetColor(x, y, '.', core.ColorGray)
		}
	}
	if sc.Frame.Phase != sim.PhaseUninitialized {
		if x, y, ok := p.Cell(sc.Frame.Arrow); ok {
			s.SetColor(x, y, ArrowGlyph(sc.Frame.Velocity), arrowColor(sc.Frame.Outcome))
		}
	}

	s.DrawTextColor(0, 0, sc.HUD, sc.HUDColor)
	s.DrawTextColor(0, s.Height()-1, sc.Footer, core.ColorGray)
}

func (sc Scene) drawGround(s *core.Screen, p Projection) {
	// World y == H sits on the last playfield row's lower edge.
	y := p.top + p.rows - 1
	s.DrawHLine(0, y, s.Width(), '_', core.ColorGreen)

	// Ceiling of the world proper; above it is the top margin.
	if _, cy, ok := p.Cell(core.V(0, 0)); ok && cy > p.top {
		s.DrawHLine(0, cy, s.Width(), '-', core.ColorGray)
	}
}

func (sc Scene) drawTarget(s *core.Screen, p Projection) {
	if sc.Frame.Phase == sim.PhaseUninitialized {
		return
	}
	target := sc.Frame.Target
	reach := sc.Config.HitRadius()

	cx, cy, ok := p.Cell(target)
	if !ok {
		return
	}
	// Scan a box around the target; cells are coarse, so the radius in
	// cells is at least one on each axis.
	spanX := int(math.Ceil(reach/sc.Config.World.Width*float64(p.cols))) + 1
	spanY := int(math.Ceil(reach/(sc.Config.World.Height+sc.Config.World.TopMargin)*float64(p.rows))) + 1
	for y := cy - spanY; y <= cy+spanY; y++ {
		for x := cx - spanX; x <= cx+spanX; x++ {
			d := p.center(x, y).Dist(target)
			switch {
			case d < sc.Config.Target.Radius:
				s.SetColor(x, y, 'O', core.ColorRed)
			case d < reach:
				s.SetColor(x, y, ':', core.ColorYellow)
			}
		}
	}
	s.SetColor(cx, cy, '@', core.ColorBrightRed)
}

// ArrowGlyph picks a character that points along the velocity.
func ArrowGlyph(vel core.Vec2) rune {
	if vel.X == 0 && vel.Y == 0 {
		return '>'
	}
	// Screen y grows downward, so negate it for a conventional angle.
	deg := math.Atan2(-vel.Y, math.Abs(vel.X)) * 180 / math.Pi
	switch {
	case deg > 67.5 || deg < -67.5:
		return '|'
	case deg > 22.5:
		return '/'
	case deg < -22.5:
		return '\\'
	default:
		return '>'
	}
}

func arrowColor(out sim.Outcome) core.Color {
	switch out {
	case sim.OutcomeHit:
		return core.ColorBrightGreen
	case sim.OutcomeOutOfBounds:
		return core.ColorBrightRed
	default:
		return core.ColorCyan
	}
}
