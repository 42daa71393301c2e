package render

import (
	"fmt"
	"log/slog"

	"naivemip/internal/models"
)

// BorderColor is returned for samples outside the volume.
var BorderColor = [4]float32{0, 0, 0, 1}

// State is the lifecycle position of a Renderer.
type State int

const (
	Uninitialized State = iota
	Ready
	Rendering
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Rendering:
		return "rendering"
	case Disposed:
		return "disposed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Renderer owns the GPU resources of one volume: cube geometry, the 3D
// texture and the ray-marching program. It is not safe for concurrent use
// and must run on the thread that owns the graphics context.
type Renderer struct {
	dev        Device
	clearColor [4]float32
	logger     *slog.Logger

	state    State
	geometry Geometry
	texture  Handle
	program  Handle

	transformLoc int32
	inverseLoc   int32
}

// NewRenderer creates an uninitialized renderer on dev.
func NewRenderer(dev Device, clearColor [4]float32, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{dev: dev, clearColor: clearColor, logger: logger}
}

// State returns the current lifecycle state.
func (r *Renderer) State() State {
	return r.state
}

// Init uploads vol and builds the shader program. On failure every resource
// created so far is released and the renderer ends up Disposed.
func (r *Renderer) Init(vol models.Volume) error {
	if r.state != Uninitialized {
		return fmt.Errorf("init renderer in state %s", r.state)
	}
	if err := vol.Validate(); err != nil {
		return err
	}

	if err := r.acquire(vol); err != nil {
		r.release()
		r.state = Disposed
		return err
	}

	r.state = Ready
	return nil
}

func (r *Renderer) acquire(vol models.Volume) error {
	var err error

	r.geometry, err = r.dev.CreateGeometry(CubeVertices(), VertexStride, CubeIndices())
	if err != nil {
		return fmt.Errorf("create geometry: %w", err)
	}
	r.logger.Debug("uploaded cube geometry", "vao", r.geometry.VAO, "vbo", r.geometry.VBO, "ebo", r.geometry.EBO)

	r.texture, err = r.dev.CreateVolumeTexture(vol.Dims, vol.Samples, BorderColor)
	if err != nil {
		return fmt.Errorf("create volume texture: %w", err)
	}
	r.logger.Debug("uploaded volume texture", "texture", r.texture, "dims", vol.Dims.String())

	r.program, err = r.buildProgram()
	if err != nil {
		return err
	}

	r.dev.ConfigurePipeline(r.clearColor)
	r.dev.UseProgram(r.program)

	volumeLoc, err := r.dev.UniformLocation(r.program, uniformVolume)
	if err != nil {
		return err
	}
	r.dev.SetUniformInt(volumeLoc, 0)
	r.dev.BindVolumeTexture(0, r.texture)

	if r.transformLoc, err = r.dev.UniformLocation(r.program, uniformTransform); err != nil {
		return err
	}
	if r.inverseLoc, err = r.dev.UniformLocation(r.program, uniformInverse); err != nil {
		return err
	}
	return nil
}

// buildProgram compiles and links the shader pair. The shader objects are
// deleted once linking is attempted.
func (r *Renderer) buildProgram() (Handle, error) {
	vs, err := r.dev.CompileShader(VertexStage, vertexShaderSource)
	if err != nil {
		return 0, err
	}
	defer r.dev.DeleteShader(vs)

	fs, err := r.dev.CompileShader(FragmentStage, fragmentShaderSource)
	if err != nil {
		return 0, err
	}
	defer r.dev.DeleteShader(fs)

	return r.dev.LinkProgram(vs, fs)
}

// RenderFrame draws one frame with the given rotation.
func (r *Renderer) RenderFrame(rot models.RotationState) error {
	if r.state != Ready && r.state != Rendering {
		return fmt.Errorf("render frame in state %s", r.state)
	}
	r.state = Rendering

	r.dev.Clear()
	r.dev.BindGeometry(r.geometry)
	r.dev.BindVolumeTexture(0, r.texture)
	r.dev.SetUniformMat4(r.transformLoc, rot.Forward)
	r.dev.SetUniformMat4(r.inverseLoc, rot.Inverse)
	r.dev.DrawIndexedTriangles(CubeIndexCount)
	return nil
}

// Dispose releases all GPU resources. Calling it again is a no-op.
func (r *Renderer) Dispose() {
	if r.state == Disposed {
		return
	}
	r.release()
	r.state = Disposed
}

// release deletes resources in reverse order of acquisition, skipping any
// that were never allocated.
func (r *Renderer) release() {
	if r.program != 0 {
		r.dev.DeleteProgram(r.program)
		r.program = 0
	}
	if r.texture != 0 {
		r.dev.DeleteTexture(r.texture)
		r.texture = 0
	}
	if !r.geometry.IsZero() {
		r.dev.DeleteGeometry(r.geometry)
		r.geometry = Geometry{}
	}
}
