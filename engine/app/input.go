package app

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyShiftLeft
	KeyT
	KeyEscape
	KeyF3
)

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Input collects the keyboard and mouse state of the current frame.
// The Just* sets and the motion events are cleared after every update.
type Input struct {
	pressed          map[Key]bool
	justPressed      map[Key]bool
	justReleased     map[Key]bool
	mousePressed     map[MouseButton]bool
	mouseJustPressed map[MouseButton]bool
	MouseMotion      []mgl32.Vec2
}

func NewInput() Input {
	return Input{
		pressed:          make(map[Key]bool),
		justPressed:      make(map[Key]bool),
		justReleased:     make(map[Key]bool),
		mousePressed:     make(map[MouseButton]bool),
		mouseJustPressed: make(map[MouseButton]bool),
	}
}

func (i *Input) Press(k Key) {
	if !i.pressed[k] {
		i.justPressed[k] = true
	}
	i.pressed[k] = true
}

func (i *Input) Release(k Key) {
	if i.pressed[k] {
		i.justReleased[k] = true
	}
	delete(i.pressed, k)
}

func (i *Input) Pressed(k Key) bool      { return i.pressed[k] }
func (i *Input) JustPressed(k Key) bool  { return i.justPressed[k] }
func (i *Input) JustReleased(k Key) bool { return i.justReleased[k] }

func (i *Input) PressMouse(b MouseButton) {
	if !i.mousePressed[b] {
		i.mouseJustPressed[b] = true
	}
	i.mousePressed[b] = true
}

func (i *Input) ReleaseMouse(b MouseButton) {
	delete(i.mousePressed, b)
}

func (i *Input) MousePressed(b MouseButton) bool     { return i.mousePressed[b] }
func (i *Input) MouseJustPressed(b MouseButton) bool { return i.mouseJustPressed[b] }

func (i *Input) AddMouseMotion(dx, dy float32) {
	i.MouseMotion = append(i.MouseMotion, mgl32.Vec2{dx, dy})
}

func (i *Input) endFrame() {
	clear(i.justPressed)
	clear(i.justReleased)
	clear(i.mouseJustPressed)
	i.MouseMotion = i.MouseMotion[:0]
}
