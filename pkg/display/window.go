// Package display owns the OS window and its OpenGL context.
//
// Every function here must be called from the main goroutine with the OS
// thread locked.
package display

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"naivemip/pkg/config"
)

// Window is a fixed-size window with a current OpenGL 3.3 core context.
type Window struct {
	win    *glfw.Window
	logger *slog.Logger
}

// Open creates the window and makes its context current.
func Open(cfg config.Window, logger *slog.Logger) (*Window, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	if runtime.GOOS == "darwin" {
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	fbw, fbh := win.GetFramebufferSize()
	logger.Info("window opened", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height,
		"framebuffer", fmt.Sprintf("%dx%d", fbw, fbh), "vsync", cfg.VSync)

	return &Window{win: win, logger: logger}, nil
}

// PollQuit processes pending events and reports whether the window was
// asked to close, by its close button or the Escape key.
func (w *Window) PollQuit() bool {
	glfw.PollEvents()
	return w.win.ShouldClose()
}

// Present swaps the back buffer to the screen.
func (w *Window) Present() {
	w.win.SwapBuffers()
}

// Close destroys the window and shuts glfw down.
func (w *Window) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
	w.logger.Debug("window closed")
}
