// Package scene renders simulated water tiles with OpenGL.
package scene

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/shader"
	"github.com/Faultbox/midgard-water/internal/engine/texture"
	"github.com/Faultbox/midgard-water/internal/engine/water"
	"github.com/Faultbox/midgard-water/internal/logger"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// Culler classifies a world-space box against the current view.
type Culler interface {
	ClassifyAABB(minB, maxB math.Vec3) camera.Containment
}

// WaterRenderer owns the GPU resources for one water tile. It implements
// water.MeshSink; the tile itself holds no GL handles.
type WaterRenderer struct {
	program *shader.Program

	vao uint32
	vbo uint32
	ebo uint32

	indexCount int32
	texture    uint32
	wireframe  bool
}

var _ water.MeshSink = (*WaterRenderer)(nil)

const stride = water.FloatsPerVertex * 4

// NewWaterRenderer compiles the water program and allocates vertex buffers.
// Must be called with a current GL context.
func NewWaterRenderer() (*WaterRenderer, error) {
	program, err := shader.NewProgram(waterVertexShader, waterFragmentShader,
		[]shader.Attrib{{Location: 0, Name: "aPosition"}, {Location: 1, Name: "aTexCoord"}},
		"uModel", "uViewProj", "uDetailRepeat", "uFlow",
		"uWaterTex", "uUseTexture", "uWaterColor", "uTransparency",
	)
	if err != nil {
		return nil, fmt.Errorf("water shader: %w", err)
	}

	wr := &WaterRenderer{program: program}

	gl.GenVertexArrays(1, &wr.vao)
	gl.BindVertexArray(wr.vao)

	gl.GenBuffers(1, &wr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, wr.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &wr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, wr.ebo)

	gl.BindVertexArray(0)

	return wr, nil
}

// Upload replaces both buffers with the serialized surface. The whole mesh
// is streamed every call.
func (wr *WaterRenderer) Upload(vertices []float32, indices []uint32) error {
	if len(vertices) == 0 || len(indices) == 0 {
		return errors.New("empty water mesh")
	}
	if len(vertices)%water.FloatsPerVertex != 0 {
		return fmt.Errorf("vertex buffer length %d not a multiple of %d", len(vertices), water.FloatsPerVertex)
	}

	gl.BindVertexArray(wr.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, wr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, wr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STREAM_DRAW)

	gl.BindVertexArray(0)

	wr.indexCount = int32(len(indices))
	return nil
}

// LoadTextureMap decodes the image at path and uses it as the water texture,
// replacing any previous one.
func (wr *WaterRenderer) LoadTextureMap(path string) error {
	img, err := texture.Load(path)
	if err != nil {
		return err
	}
	texID, err := texture.Upload(img)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}
	texture.Delete(wr.texture)
	wr.texture = texID

	logger.Info("water texture loaded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return nil
}

// SetWireframe toggles line polygon mode.
func (wr *WaterRenderer) SetWireframe(on bool) {
	wr.wireframe = on
}

// Wireframe reports whether line polygon mode is active.
func (wr *WaterRenderer) Wireframe() bool {
	return wr.wireframe
}

// Render draws the last uploaded mesh. Nothing is drawn when no mesh has been
// uploaded or culler reports the tile's bounds outside the view; a nil culler
// draws unconditionally. Returns whether a draw call was issued.
func (wr *WaterRenderer) Render(viewProj math.Mat4, state water.RenderState, culler Culler) bool {
	if wr.indexCount == 0 {
		return false
	}
	if culler != nil && culler.ClassifyAABB(state.Bounds.Min, state.Bounds.Max) == camera.Outside {
		return false
	}

	wr.program.Use()

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	gl.FrontFace(gl.CCW)
	if wr.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	gl.UniformMatrix4fv(wr.program.Uniform("uModel"), 1, false, state.World.Ptr())
	gl.UniformMatrix4fv(wr.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.Uniform1f(wr.program.Uniform("uDetailRepeat"), state.DetailRepeat)
	gl.Uniform2f(wr.program.Uniform("uFlow"), state.FlowTu, state.FlowTv)
	gl.Uniform3f(wr.program.Uniform("uWaterColor"), state.Color.X, state.Color.Y, state.Color.Z)
	gl.Uniform1f(wr.program.Uniform("uTransparency"), state.Transparency)

	if wr.texture != 0 {
		gl.Uniform1i(wr.program.Uniform("uUseTexture"), 1)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, wr.texture)
		gl.Uniform1i(wr.program.Uniform("uWaterTex"), 0)
	} else {
		gl.Uniform1i(wr.program.Uniform("uUseTexture"), 0)
	}

	gl.BindVertexArray(wr.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, wr.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)

	if wr.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.Disable(gl.BLEND)
	return true
}

// Destroy releases all resources.
func (wr *WaterRenderer) Destroy() {
	if wr.vao != 0 {
		gl.DeleteVertexArrays(1, &wr.vao)
		wr.vao = 0
	}
	if wr.vbo != 0 {
		gl.DeleteBuffers(1, &wr.vbo)
		wr.vbo = 0
	}
	if wr.ebo != 0 {
		gl.DeleteBuffers(1, &wr.ebo)
		wr.ebo = 0
	}
	texture.Delete(wr.texture)
	wr.texture = 0
	if wr.program != nil {
		wr.program.Delete()
	}
}
