package render

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"naivemip/internal/models"
)

// GLDevice issues commands to the current OpenGL 3.3 core context.
// gl.Init must have been called on the calling thread.
type GLDevice struct {
	logger *slog.Logger
}

// NewGLDevice wraps the current context.
func NewGLDevice(logger *slog.Logger) *GLDevice {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("OpenGL context",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return &GLDevice{logger: logger}
}

// CreateGeometry uploads the interleaved cube mesh. Attribute 0 is the
// position and attribute 1 the texture coordinate.
func (d *GLDevice) CreateGeometry(vertices []float32, stride int, indices []uint32) (Geometry, error) {
	var g Geometry

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return g, errors.New("glGenVertexArrays returned no name")
	}
	g.VAO = Handle(vao)
	gl.BindVertexArray(vao)
	defer gl.BindVertexArray(0)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	if vbo == 0 {
		return g, errors.New("glGenBuffers returned no name for vertices")
	}
	g.VBO = Handle(vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	if ebo == 0 {
		return g, errors.New("glGenBuffers returned no name for indices")
	}
	g.EBO = Handle(ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	strideBytes := int32(stride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, strideBytes, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, strideBytes, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	return g, nil
}

// CreateVolumeTexture uploads samples as a single-channel R8 3D texture of
// Cols x Rows x Depth with nearest filtering and a clamp-to-border wrap.
func (d *GLDevice) CreateVolumeTexture(dims models.Dims, samples []uint8, border [4]float32) (Handle, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0, errors.New("glGenTextures returned no name")
	}

	gl.BindTexture(gl.TEXTURE_3D, tex)
	defer gl.BindTexture(gl.TEXTURE_3D, 0)

	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_BORDER)
	gl.TexParameterfv(gl.TEXTURE_3D, gl.TEXTURE_BORDER_COLOR, &border[0])

	// Slices are discrete; interpolating would blend unrelated planes.
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	// Rows of single-byte texels are not 4-byte aligned for odd widths.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage3D(gl.TEXTURE_3D, 0, gl.R8,
		int32(dims.Cols), int32(dims.Rows), int32(dims.Depth),
		0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(samples))

	if code := gl.GetError(); code != gl.NO_ERROR {
		return Handle(tex), fmt.Errorf("glTexImage3D failed with error 0x%x", code)
	}
	return Handle(tex), nil
}

// CompileShader compiles one stage. A failed compile returns a
// *ShaderCompileError holding the driver's info log.
func (d *GLDevice) CompileShader(stage ShaderStage, source string) (Handle, error) {
	var kind uint32
	switch stage {
	case VertexStage:
		kind = gl.VERTEX_SHADER
	case FragmentStage:
		kind = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("unknown shader stage %s", stage)
	}

	shader := gl.CreateShader(kind)
	if shader == 0 {
		return 0, fmt.Errorf("glCreateShader returned no name for %s stage", stage)
	}
	csources, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csources, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &ShaderCompileError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}
	return Handle(shader), nil
}

// LinkProgram links the shaders into a program and detaches them. A failed
// link returns a *ShaderLinkError holding the driver's info log.
func (d *GLDevice) LinkProgram(shaders ...Handle) (Handle, error) {
	program := gl.CreateProgram()
	if program == 0 {
		return 0, errors.New("glCreateProgram returned no name")
	}
	for _, s := range shaders {
		gl.AttachShader(program, uint32(s))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &ShaderLinkError{Log: strings.TrimRight(log, "\x00")}
	}
	for _, s := range shaders {
		gl.DetachShader(program, uint32(s))
	}
	return Handle(program), nil
}

// DeleteShader releases a shader object; zero is ignored.
func (d *GLDevice) DeleteShader(h Handle) {
	if h != 0 {
		gl.DeleteShader(uint32(h))
	}
}

// UniformLocation resolves a named uniform, failing if the linker dropped it.
func (d *GLDevice) UniformLocation(program Handle, name string) (int32, error) {
	loc := gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
	if loc < 0 {
		return 0, fmt.Errorf("uniform %q not found in program", name)
	}
	return loc, nil
}

// UseProgram makes program current.
func (d *GLDevice) UseProgram(program Handle) {
	gl.UseProgram(uint32(program))
}

// SetUniformInt sets an int or sampler uniform of the current program.
func (d *GLDevice) SetUniformInt(location int32, v int32) {
	gl.Uniform1i(location, v)
}

// SetUniformMat4 sets a column-major mat4 uniform of the current program.
func (d *GLDevice) SetUniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

// ConfigurePipeline sets the clear color and face culling.
func (d *GLDevice) ConfigurePipeline(clearColor [4]float32) {
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	// Only back faces are rasterized so every fragment starts a ray from
	// the far side of the cube.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
	gl.FrontFace(gl.CCW)
}

// Clear clears the color buffer.
func (d *GLDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// BindGeometry binds the vertex array of g.
func (d *GLDevice) BindGeometry(g Geometry) {
	gl.BindVertexArray(uint32(g.VAO))
}

// BindVolumeTexture binds texture as the 3D texture of the given unit.
func (d *GLDevice) BindVolumeTexture(unit uint32, texture Handle) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_3D, uint32(texture))
}

// DrawIndexedTriangles draws count indices from the bound element buffer.
func (d *GLDevice) DrawIndexedTriangles(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}

// DeleteGeometry releases the allocated parts of g.
func (d *GLDevice) DeleteGeometry(g Geometry) {
	if g.VAO != 0 {
		vao := uint32(g.VAO)
		gl.DeleteVertexArrays(1, &vao)
	}
	if g.VBO != 0 {
		vbo := uint32(g.VBO)
		gl.DeleteBuffers(1, &vbo)
	}
	if g.EBO != 0 {
		ebo := uint32(g.EBO)
		gl.DeleteBuffers(1, &ebo)
	}
}

// DeleteTexture releases texture; zero is ignored.
func (d *GLDevice) DeleteTexture(texture Handle) {
	if texture != 0 {
		tex := uint32(texture)
		gl.DeleteTextures(1, &tex)
	}
}

// DeleteProgram releases program; zero is ignored.
func (d *GLDevice) DeleteProgram(program Handle) {
	if program != 0 {
		gl.DeleteProgram(uint32(program))
	}
}
