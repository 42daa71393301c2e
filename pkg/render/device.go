// Package render draws a maximum-intensity projection of a volume by
// ray-marching a 3D texture from the faces of a rotating cube.
//
// All GPU work goes through Device. GLDevice implements it on OpenGL 3.3
// core; tests drive Renderer with an in-memory device.
package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"naivemip/internal/models"
)

// Handle is an opaque GPU object name. Zero means "not allocated".
type Handle uint32

// Geometry groups the objects that hold the cube mesh.
type Geometry struct {
	VAO Handle
	VBO Handle
	EBO Handle
}

// IsZero reports whether no part of the geometry was allocated.
func (g Geometry) IsZero() bool {
	return g.VAO == 0 && g.VBO == 0 && g.EBO == 0
}

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return fmt.Sprintf("ShaderStage(%d)", int(s))
}

// Device is the GPU command set the renderer needs.
//
// Create methods may return partially allocated objects together with an
// error; the caller releases whatever non-zero handles it got back.
type Device interface {
	CreateGeometry(vertices []float32, stride int, indices []uint32) (Geometry, error)
	CreateVolumeTexture(dims models.Dims, samples []uint8, border [4]float32) (Handle, error)
	CompileShader(stage ShaderStage, source string) (Handle, error)
	LinkProgram(shaders ...Handle) (Handle, error)
	DeleteShader(h Handle)
	UniformLocation(program Handle, name string) (int32, error)

	UseProgram(program Handle)
	SetUniformInt(location int32, v int32)
	SetUniformMat4(location int32, m mgl32.Mat4)
	ConfigurePipeline(clearColor [4]float32)

	Clear()
	BindGeometry(g Geometry)
	BindVolumeTexture(unit uint32, texture Handle)
	DrawIndexedTriangles(count int32)

	DeleteGeometry(g Geometry)
	DeleteTexture(texture Handle)
	DeleteProgram(program Handle)
}

// ShaderCompileError carries the compiler diagnostic of a failed stage.
type ShaderCompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("compiling %s shader: %s", e.Stage, e.Log)
}

// ShaderLinkError carries the linker diagnostic of a failed program.
type ShaderLinkError struct {
	Log string
}

func (e *ShaderLinkError) Error() string {
	return "linking shader program: " + e.Log
}
