package glhf

import (
	"runtime"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// VertexArray holds packed uint32 vertices (and optionally indices) on the GPU, laid out
// according to the vertex format of the shader it was created for. It can only be drawn
// with that shader.
//
// Begin the array before updating or drawing it and End it afterwards.
type VertexArray struct {
	vao, vbo, ibo binder
	format        AttrFormat
	stride        int
	offset        []int
	shader        *Shader
	vertexCount   int
	indexCount    int
	primitiveType uint32
}

func NewVertexArray(shader *Shader) (*VertexArray, error) {
	va := &VertexArray{
		primitiveType: gl.TRIANGLES,
		vao: binder{
			restoreLoc: gl.VERTEX_ARRAY_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindVertexArray(obj)
			},
		},
		vbo: binder{
			restoreLoc: gl.ARRAY_BUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindBuffer(gl.ARRAY_BUFFER, obj)
			},
		},
		ibo: binder{
			restoreLoc: gl.ELEMENT_ARRAY_BUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, obj)
			},
		},
		format: shader.VertexFormat(),
		stride: shader.VertexFormat().Size(),
		offset: make([]int, len(shader.VertexFormat())),
		shader: shader,
	}

	offset := 0
	for i, attr := range va.format {
		switch attr.Type {
		case Int, UInt:
		default:
			return nil, errors.Errorf("failed to create vertex array: attribute %q is not an integer", attr.Name)
		}
		va.offset[i] = offset
		offset += attr.Type.Size()
	}

	gl.GenVertexArrays(1, &va.vao.obj)
	va.vao.bind()

	gl.GenBuffers(1, &va.vbo.obj)
	gl.GenBuffers(1, &va.ibo.obj)
	va.vbo.bind()
	va.setAttributes()
	va.vbo.restore()

	// the element buffer binding is part of the vertex array state
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.ibo.obj)
	va.vao.restore()

	if glError := gl.GetError(); glError != gl.NO_ERROR {
		return nil, errors.Errorf("failed to create vertex array: gl error %d", glError)
	}

	runtime.SetFinalizer(va, (*VertexArray).delete)
	return va, nil
}

func (va *VertexArray) setAttributes() {
	for i, attr := range va.format {
		loc := gl.GetAttribLocation(va.shader.program.obj, gl.Str(attr.Name+"\x00"))
		if loc < 0 {
			continue
		}
		glType := uint32(gl.UNSIGNED_INT)
		if attr.Type == Int {
			glType = gl.INT
		}
		gl.VertexAttribIPointerWithOffset(
			uint32(loc),
			1,
			glType,
			int32(va.stride),
			uintptr(va.offset[i]),
		)
		gl.EnableVertexAttribArray(uint32(loc))
	}
}

func (va *VertexArray) delete() {
	mainthread.CallNonBlock(va.Delete)
}

// Delete frees the GPU objects. It must run on the thread owning the context.
func (va *VertexArray) Delete() {
	if va.vao.obj == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &va.vao.obj)
	gl.DeleteBuffers(1, &va.vbo.obj)
	gl.DeleteBuffers(1, &va.ibo.obj)
	va.vao.obj, va.vbo.obj, va.ibo.obj = 0, 0, 0
	runtime.SetFinalizer(va, nil)
}

// SetData replaces the buffer contents. With no indices the vertices are drawn as a flat list.
func (va *VertexArray) SetData(vertices []uint32, indices []uint32) {
	va.vertexCount = len(vertices) * 4 / va.stride
	va.indexCount = len(indices)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	}
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
}

func (va *VertexArray) VertexCount() int {
	return va.vertexCount
}

func (va *VertexArray) Begin() {
	va.vao.bind()
	va.vbo.bind()
}

func (va *VertexArray) End() {
	va.vbo.restore()
	va.vao.restore()
}

func (va *VertexArray) Draw() {
	if va.indexCount > 0 {
		gl.DrawElements(va.primitiveType, int32(va.indexCount), gl.UNSIGNED_INT, gl.Ptr(nil))
		return
	}
	if va.vertexCount > 0 {
		gl.DrawArrays(va.primitiveType, 0, int32(va.vertexCount))
	}
}
