// Package animation turns wall-clock time into the cube's rotation and runs
// the render loop.
package animation

import (
	"context"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"naivemip/internal/models"
)

const (
	// SpinRate is the rotation speed about the vertical axis in radians per
	// second.
	SpinRate = 0.3

	// Tilt is the fixed rotation about the horizontal axis, in radians.
	Tilt = -math.Pi / 3
)

// RotationAt returns the model transform after elapsed time of spinning.
func RotationAt(elapsed time.Duration) models.RotationState {
	angle := math.Mod(elapsed.Seconds()*SpinRate, 2*math.Pi)
	forward := mgl32.HomogRotate3DY(float32(angle)).Mul4(mgl32.HomogRotate3DX(float32(Tilt)))
	return models.RotationState{Forward: forward, Inverse: forward.Inv()}
}

// Driver measures elapsed time from the moment it was created.
type Driver struct {
	start time.Time
	now   func() time.Time
}

// NewDriver starts the clock. A nil now uses time.Now.
func NewDriver(now func() time.Time) *Driver {
	if now == nil {
		now = time.Now
	}
	return &Driver{start: now(), now: now}
}

// Rotation returns the transform for the current instant.
func (d *Driver) Rotation() models.RotationState {
	return RotationAt(d.now().Sub(d.start))
}

// Surface is the window the frames are shown in.
type Surface interface {
	// PollQuit processes pending events without blocking and reports
	// whether the user asked to quit.
	PollQuit() bool
	// Present shows the frame just drawn, waiting for vsync if enabled.
	Present()
}

// FrameRenderer draws a single frame.
type FrameRenderer interface {
	RenderFrame(rot models.RotationState) error
}

// VolumeRenderer is a FrameRenderer that owns GPU resources for a volume.
type VolumeRenderer interface {
	FrameRenderer
	Init(vol models.Volume) error
	Dispose()
}

// Run draws frames until the surface reports a quit, ctx is done or a
// frame fails. Quitting and cancellation are not errors.
func Run(ctx context.Context, s Surface, r FrameRenderer, d *Driver) error {
	for {
		if s.PollQuit() {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := r.RenderFrame(d.Rotation()); err != nil {
			return err
		}
		s.Present()
	}
}

// Session initializes r with vol, runs the loop and disposes r on every
// exit path.
func Session(ctx context.Context, s Surface, r VolumeRenderer, vol models.Volume, d *Driver) error {
	defer r.Dispose()
	if err := r.Init(vol); err != nil {
		return err
	}
	return Run(ctx, s, r, d)
}
