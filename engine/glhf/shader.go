package glhf

import (
	"runtime"
	"strings"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Init loads the OpenGL function pointers. The context must be current on the calling thread.
func Init() error {
	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize OpenGL")
	}
	return nil
}

// Shader is an OpenGL shader program.
type Shader struct {
	program    binder
	vertexFmt  AttrFormat
	uniformFmt AttrFormat
	uniformLoc []int32
}

// NewShader compiles and links a program from vertex and fragment sources. Every uniform named
// in uniformFmt must be active in the program.
func NewShader(vertexFmt, uniformFmt AttrFormat, vertexShader, fragmentShader string) (*Shader, error) {
	shader := &Shader{
		program: binder{
			restoreLoc: gl.CURRENT_PROGRAM,
			bindFunc: func(obj uint32) {
				gl.UseProgram(obj)
			},
		},
		vertexFmt:  vertexFmt,
		uniformFmt: uniformFmt,
		uniformLoc: make([]int32, len(uniformFmt)),
	}

	vshader, err := compileShader(gl.VERTEX_SHADER, vertexShader)
	if err != nil {
		return nil, errors.Wrap(err, "error creating shader")
	}
	defer gl.DeleteShader(vshader)

	fshader, err := compileShader(gl.FRAGMENT_SHADER, fragmentShader)
	if err != nil {
		return nil, errors.Wrap(err, "error creating shader")
	}
	defer gl.DeleteShader(fshader)

	shader.program.obj = gl.CreateProgram()
	gl.AttachShader(shader.program.obj, vshader)
	gl.AttachShader(shader.program.obj, fshader)
	gl.LinkProgram(shader.program.obj)

	var success int32
	gl.GetProgramiv(shader.program.obj, gl.LINK_STATUS, &success)
	if success == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(shader.program.obj, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := make([]byte, logLen+1)
		gl.GetProgramInfoLog(shader.program.obj, logLen, nil, &infoLog[0])
		gl.DeleteProgram(shader.program.obj)
		return nil, errors.Errorf("error linking shader program: %s", strings.TrimRight(string(infoLog), "\x00"))
	}

	for i, uniform := range uniformFmt {
		loc := gl.GetUniformLocation(shader.program.obj, gl.Str(uniform.Name+"\x00"))
		if loc < 0 {
			gl.DeleteProgram(shader.program.obj)
			return nil, errors.Errorf("uniform %q not found in shader program", uniform.Name)
		}
		shader.uniformLoc[i] = loc
	}

	runtime.SetFinalizer(shader, (*Shader).delete)
	return shader, nil
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	src, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, src, nil)
	gl.CompileShader(shader)

	var success int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &infoLog[0])
		gl.DeleteShader(shader)
		return 0, errors.Errorf("error compiling shader: %s", strings.TrimRight(string(infoLog), "\x00"))
	}
	return shader, nil
}

func (s *Shader) delete() {
	mainthread.CallNonBlock(func() {
		gl.DeleteProgram(s.program.obj)
	})
}

func (s *Shader) ID() uint32 {
	return s.program.obj
}

func (s *Shader) VertexFormat() AttrFormat {
	return s.vertexFmt
}

// SetUniformAttr sets the value of the uniform at index uniform. The value type must match the
// AttrType of the uniform; it returns false otherwise. The shader must be bound.
func (s *Shader) SetUniformAttr(uniform int, value interface{}) bool {
	if uniform < 0 || uniform >= len(s.uniformLoc) {
		return false
	}
	loc := s.uniformLoc[uniform]
	switch s.uniformFmt[uniform].Type {
	case Int:
		v, ok := value.(int32)
		if !ok {
			return false
		}
		gl.Uniform1i(loc, v)
	case UInt:
		v, ok := value.(uint32)
		if !ok {
			return false
		}
		gl.Uniform1ui(loc, v)
	case Float:
		v, ok := value.(float32)
		if !ok {
			return false
		}
		gl.Uniform1f(loc, v)
	case Vec2:
		v, ok := value.(mgl32.Vec2)
		if !ok {
			return false
		}
		gl.Uniform2fv(loc, 1, &v[0])
	case Vec3:
		v, ok := value.(mgl32.Vec3)
		if !ok {
			return false
		}
		gl.Uniform3fv(loc, 1, &v[0])
	case Vec4:
		v, ok := value.(mgl32.Vec4)
		if !ok {
			return false
		}
		gl.Uniform4fv(loc, 1, &v[0])
	case Mat4:
		v, ok := value.(mgl32.Mat4)
		if !ok {
			return false
		}
		gl.UniformMatrix4fv(loc, 1, false, &v[0])
	default:
		return false
	}
	return true
}

// Begin binds the shader program. It must be called before drawing or setting uniforms.
func (s *Shader) Begin() {
	s.program.bind()
}

func (s *Shader) End() {
	s.program.restore()
}
