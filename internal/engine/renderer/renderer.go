// Package renderer draws particle models and the debug grid with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/pyre/internal/engine/debug"
	"github.com/Faultbox/pyre/internal/engine/mesh"
	"github.com/Faultbox/pyre/internal/engine/particle"
	"github.com/Faultbox/pyre/internal/engine/shader"
	"github.com/Faultbox/pyre/internal/logger"
	"github.com/Faultbox/pyre/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background particle.Color
	GridSlices int
}

// gpuMesh is a mesh uploaded to the GPU.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	name          string
}

// Renderer handles all OpenGL rendering. It implements particle.Renderer.
type Renderer struct {
	config Config

	particles *shader.Program
	locMVP    int32
	locTint   int32

	lines      *shader.Program
	locLineMVP int32
	gridVAO    uint32
	gridVBO    uint32
	gridCount  int32

	// Models are indexed by handle-1 so the zero Model is never valid.
	models []gpuMesh

	viewProj math.Mat4
	mvp      math.Mat4 // scratch for DrawModel
	blends   blendStack
}

var _ particle.Renderer = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg, viewProj: math.Identity()}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	cr, cg, cb, _ := cfg.Background.Floats()
	gl.ClearColor(cr, cg, cb, 1.0)

	var err error
	r.particles, err = shader.Compile("particle", particleVertexShader, particleFragmentShader)
	if err != nil {
		return nil, err
	}
	r.locMVP = r.particles.Uniform("uMVP")
	r.locTint = r.particles.Uniform("uTint")

	r.lines, err = shader.Compile("line", lineVertexShader, lineFragmentShader)
	if err != nil {
		r.particles.Delete()
		return nil, err
	}
	r.locLineMVP = r.lines.Uniform("uMVP")

	slices := cfg.GridSlices
	if slices <= 0 {
		slices = debug.DefaultGridSlices
	}
	r.createGrid(debug.GridLines(slices, debug.DefaultGridSpacing))

	if cfg.Width > 0 && cfg.Height > 0 {
		gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	}
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer", zap.Int("models", len(r.models)))
	for i := range r.models {
		m := &r.models[i]
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	r.models = nil
	if r.gridVAO != 0 {
		gl.DeleteVertexArrays(1, &r.gridVAO)
		gl.DeleteBuffers(1, &r.gridVBO)
	}
	if r.particles != nil {
		r.particles.Delete()
	}
	if r.lines != nil {
		r.lines.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame with the given camera transform.
func (r *Renderer) Begin(viewProj math.Mat4) {
	r.viewProj = viewProj
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	if n := r.blends.depth(); n != 0 {
		logger.Warn("unbalanced blend modes at end of frame", zap.Int("depth", n))
		r.blends = blendStack{}
		r.resetBlend()
	}
}

// LoadModel generates and uploads the mesh for spec.
// It has the preset.ModelLoader signature.
func (r *Renderer) LoadModel(spec mesh.Spec) (particle.Model, error) {
	m, err := mesh.Generate(spec)
	if err != nil {
		return 0, err
	}
	return r.Upload(spec.String(), m), nil
}

// Upload copies a mesh to the GPU and returns its handle.
func (r *Renderer) Upload(name string, m *mesh.Mesh) particle.Model {
	var g gpuMesh
	g.name = name
	g.indexCount = int32(len(m.Indices))

	data := m.Interleaved()

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, mesh.VertexStride, 0)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, mesh.VertexStride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	r.models = append(r.models, g)
	logger.Debug("model uploaded",
		zap.String("name", name),
		zap.Int("triangles", m.Triangles()),
		zap.Int("handle", len(r.models)),
	)
	return particle.Model(len(r.models))
}

func (r *Renderer) model(h particle.Model) *gpuMesh {
	i := int(h) - 1
	if i < 0 || i >= len(r.models) {
		return nil
	}
	return &r.models[i]
}

// BeginBlendMode switches blending for transparent particles. Depth is still
// tested but not written so overlapping particles all show.
func (r *Renderer) BeginBlendMode(mode particle.BlendMode) {
	if r.blends.depth() == 0 {
		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
		r.particles.Use()
	}
	r.blends.push(mode)
	applyBlend(mode)
}

// EndBlendMode restores the enclosing blend mode, or opaque drawing.
func (r *Renderer) EndBlendMode() {
	if mode, ok := r.blends.pop(); ok {
		applyBlend(mode)
		return
	}
	r.resetBlend()
}

func (r *Renderer) resetBlend() {
	applyBlend(particle.BlendAlpha)
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
}

// DrawModel draws one model instance.
func (r *Renderer) DrawModel(model particle.Model, transform math.Mat4, tint particle.Color) {
	g := r.model(model)
	if g == nil {
		return
	}
	if r.blends.depth() == 0 {
		r.particles.Use()
	}

	r.mvp = r.viewProj.Mul(transform)
	cr, cg, cb, ca := tint.Floats()

	gl.UniformMatrix4fv(r.locMVP, 1, false, r.mvp.Ptr())
	gl.Uniform4f(r.locTint, cr, cg, cb, ca)

	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// createGrid uploads the ground grid line list.
func (r *Renderer) createGrid(verts []debug.GridVertex) {
	if len(verts) == 0 {
		return
	}
	r.gridCount = int32(len(verts))
	stride := int32(unsafe.Sizeof(debug.GridVertex{}))

	gl.GenVertexArrays(1, &r.gridVAO)
	gl.BindVertexArray(r.gridVAO)

	gl.GenBuffers(1, &r.gridVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.gridVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*int(stride), gl.Ptr(verts), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// DrawGrid draws the ground grid.
func (r *Renderer) DrawGrid() {
	if r.gridVAO == 0 {
		return
	}
	r.lines.Use()
	gl.UniformMatrix4fv(r.locLineMVP, 1, false, r.viewProj.Ptr())
	gl.BindVertexArray(r.gridVAO)
	gl.DrawArrays(gl.LINES, 0, r.gridCount)
	gl.BindVertexArray(0)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
