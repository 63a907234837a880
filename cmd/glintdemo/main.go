// Command glintdemo opens a window and draws a spinning quad.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glint"
	"github.com/gogpu/glint/device"
	"github.com/gogpu/glint/driver"
	_ "github.com/gogpu/glint/gldriver"
)

const vertexSrc = `#version 330 core
layout(location = 0) in vec2 a_pos;
layout(location = 1) in vec4 a_color;
uniform mat4 u_mvp;
out vec4 v_color;
void main() {
    v_color = a_color;
    gl_Position = u_mvp * vec4(a_pos, 0.0, 1.0);
}
`

const fragmentSrc = `#version 330 core
in vec4 v_color;
out vec4 frag;
void main() {
    frag = v_color;
}
`

// vertex is position plus an RGBA color, packed to match quadFormat.
var quadFormat = driver.NewVertexFormat(
	driver.VertexAttribute{Location: 0, Kind: driver.AttrFloat2},
	driver.VertexAttribute{Location: 1, Kind: driver.AttrByte4, Normalized: true},
)

func quadVertices(half float32) []byte {
	type corner struct {
		x, y    float32
		r, g, b byte
	}
	corners := []corner{
		{-half, -half, 255, 64, 64},
		{half, -half, 64, 255, 64},
		{half, half, 64, 64, 255},
		{-half, half, 255, 255, 64},
	}
	buf := make([]byte, 0, len(corners)*quadFormat.Stride)
	for _, c := range corners {
		buf = appendFloat32(buf, c.x)
		buf = appendFloat32(buf, c.y)
		buf = append(buf, c.r, c.g, c.b, 255)
	}
	return buf
}

func appendFloat32(buf []byte, f float32) []byte {
	bits := math.Float32bits(f)
	return append(buf, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
}

func main() {
	var (
		width   = flag.Int("width", 800, "window width")
		height  = flag.Int("height", 600, "window height")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		glint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	app, err := glint.Startup(glint.Config{
		Title: "glint demo",
		Width: *width, Height: *height,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer app.Shutdown()

	shader, err := app.Device.CreateShader(vertexSrc, fragmentSrc)
	if err != nil {
		log.Fatalf("Failed to compile shader: %v", err)
	}
	defer shader.Dispose()

	mesh, err := app.Device.CreateMesh(quadFormat, quadVertices(100), []uint32{0, 1, 2, 0, 2, 3})
	if err != nil {
		log.Fatalf("Failed to create mesh: %v", err)
	}
	defer mesh.Dispose()

	start := time.Now()
	for !app.Window.ShouldClose() {
		app.Device.PollEvents()

		app.Device.ClearTarget(app.Window, driver.ClearColor,
			driver.Color{R: 0.08, G: 0.08, B: 0.12, A: 1}, 1, 0)

		w, h := app.Window.Size()
		angle := float32(time.Since(start).Seconds())
		mvp := mgl32.Ortho2D(0, float32(w), float32(h), 0).
			Mul4(mgl32.Translate3D(float32(w)/2, float32(h)/2, 0)).
			Mul4(mgl32.HomRotate3DZ(angle))

		pass := device.NewPass(shader, mesh)
		pass.Uniforms = []driver.Uniform{
			{Name: "u_mvp", Kind: driver.UniformMat4, Floats: mvp[:]},
		}
		app.Device.RenderToTarget(app.Window, pass)

		app.Window.Present()
		app.Device.Tick()
	}
}
