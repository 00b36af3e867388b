package main

import (
	"github.com/faiface/mainthread"
	"github.com/memmaker/voxelengine/cli"
)

func main() {
	// OpenGL and glfw calls must stay on the main thread
	mainthread.Run(cli.Execute)
}
