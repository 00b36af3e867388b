package client

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/memmaker/voxelengine/engine/app"
	"github.com/memmaker/voxelengine/engine/util"
)

var keyMap = map[glfw.Key]app.Key{
	glfw.KeyW:         app.KeyW,
	glfw.KeyA:         app.KeyA,
	glfw.KeyS:         app.KeyS,
	glfw.KeyD:         app.KeyD,
	glfw.KeySpace:     app.KeySpace,
	glfw.KeyLeftShift: app.KeyShiftLeft,
	glfw.KeyT:         app.KeyT,
	glfw.KeyEscape:    app.KeyEscape,
	glfw.KeyF3:        app.KeyF3,
}

var mouseMap = map[glfw.MouseButton]app.MouseButton{
	glfw.MouseButtonLeft:   app.MouseLeft,
	glfw.MouseButtonRight:  app.MouseRight,
	glfw.MouseButtonMiddle: app.MouseMiddle,
}

func (v *Viewer) handleKeyEvents(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyF3 && action == glfw.Press {
		v.setMouseCaptured(!v.mouseCaptured)
	}
	k, ok := keyMap[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		v.app.Input().Press(k)
	case glfw.Release:
		v.app.Input().Release(k)
	}
}

func (v *Viewer) handleMouseButtonEvents(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := mouseMap[button]
	if !ok || !v.mouseCaptured {
		return
	}
	switch action {
	case glfw.Press:
		v.app.Input().PressMouse(b)
	case glfw.Release:
		v.app.Input().ReleaseMouse(b)
	}
}

func (v *Viewer) handleMousePosEvents(xpos float64, ypos float64) {
	if v.firstMouse {
		v.lastMousePosX, v.lastMousePosY = xpos, ypos
		v.firstMouse = false
		return
	}
	dx, dy := xpos-v.lastMousePosX, ypos-v.lastMousePosY
	v.lastMousePosX, v.lastMousePosY = xpos, ypos
	if !v.mouseCaptured || (dx == 0 && dy == 0) {
		return
	}
	v.app.Input().AddMouseMotion(float32(dx), float32(dy))
}

func (v *Viewer) setMouseCaptured(captured bool) {
	v.mouseCaptured = captured
	v.firstMouse = true
	util.LogInputDebug(fmt.Sprintf("mouse captured: %t", captured))
	if captured {
		v.Window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		v.Window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}
