// Package splitpane tracks a draggable divider between two panels.
package splitpane

import "sync"

// Defaults used by the editor pages.
const (
	DefaultMinLeft  = 240
	DefaultMinRight = 320
)

// State is a snapshot of the divider.
type State struct {
	Container int     `json:"container"`
	Left      int     `json:"left"`
	Percent   float64 `json:"percent"`
	Dragging  bool    `json:"dragging"`
}

// Pane is the divider of one page. Widths are in pixels.
type Pane struct {
	mu        sync.Mutex
	minLeft   int
	minRight  int
	container int
	left      int

	dragging  bool
	startX    int
	startLeft int
}

// New creates a divider splitting container at left, clamped to the minimums.
func New(container, left, minLeft, minRight int) *Pane {
	p := &Pane{minLeft: minLeft, minRight: minRight, container: container}
	p.left = p.clamp(left)
	return p
}

// Down starts a drag at pointer position x.
func (p *Pane) Down(x int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dragging = true
	p.startX = x
	p.startLeft = p.left
}

// Move resizes while a drag is active; otherwise it does nothing.
func (p *Pane) Move(x int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.dragging {
		return
	}
	p.left = p.clamp(p.startLeft + (x - p.startX))
}

// Up ends the drag.
func (p *Pane) Up() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dragging = false
}

// Resize adapts to a new container width, keeping the left panel within bounds.
func (p *Pane) Resize(container int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.container = container
	p.left = p.clamp(p.left)
}

// State returns a snapshot.
func (p *Pane) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := State{Container: p.container, Left: p.left, Dragging: p.dragging}
	if p.container > 0 {
		s.Percent = float64(p.left) * 100 / float64(p.container)
	}
	return s
}

// clamp keeps left within [minLeft, container-minRight]. When the container is
// too narrow for both minimums the left minimum wins.
func (p *Pane) clamp(left int) int {
	upper := p.container - p.minRight
	if left > upper {
		left = upper
	}
	if left < p.minLeft {
		left = p.minLeft
	}
	return left
}
