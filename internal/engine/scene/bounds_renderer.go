package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-water/internal/engine/debug"
	"github.com/Faultbox/midgard-water/internal/engine/shader"
	"github.com/Faultbox/midgard-water/pkg/math"
)

const lineVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;

uniform mat4 uViewProj;

void main() {
    gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

const lineFragmentShader = `#version 410 core
uniform vec3 uColor;

out vec4 FragColor;

void main() {
    FragColor = vec4(uColor, 1.0);
}
`

// BoundsRenderer draws a world-space box as a line wireframe.
// The box is uploaded once; water bounds never change after construction.
type BoundsRenderer struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
	color   math.Vec3
}

// NewBoundsRenderer uploads the edges of the box (minB, maxB).
func NewBoundsRenderer(minB, maxB math.Vec3) (*BoundsRenderer, error) {
	program, err := shader.NewProgram(lineVertexShader, lineFragmentShader,
		[]shader.Attrib{{Location: 0, Name: "aPosition"}},
		"uViewProj", "uColor",
	)
	if err != nil {
		return nil, fmt.Errorf("bounds shader: %w", err)
	}

	br := &BoundsRenderer{program: program, color: math.Vec3{X: 1, Y: 0.8, Z: 0.1}}
	lines := debug.BoxLines(minB, maxB)

	gl.GenVertexArrays(1, &br.vao)
	gl.BindVertexArray(br.vao)
	gl.GenBuffers(1, &br.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, br.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(lines)*4, unsafe.Pointer(&lines[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	return br, nil
}

// Render draws the box edges.
func (br *BoundsRenderer) Render(viewProj math.Mat4) {
	br.program.Use()
	gl.UniformMatrix4fv(br.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.Uniform3f(br.program.Uniform("uColor"), br.color.X, br.color.Y, br.color.Z)

	gl.BindVertexArray(br.vao)
	gl.DrawArrays(gl.LINES, 0, debug.BoxLineVertexCount)
	gl.BindVertexArray(0)
}

// Destroy releases all resources.
func (br *BoundsRenderer) Destroy() {
	if br.vao != 0 {
		gl.DeleteVertexArrays(1, &br.vao)
		br.vao = 0
	}
	if br.vbo != 0 {
		gl.DeleteBuffers(1, &br.vbo)
		br.vbo = 0
	}
	if br.program != nil {
		br.program.Delete()
		br.program = nil
	}
}
