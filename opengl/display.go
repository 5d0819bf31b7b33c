//go:build !nogl

package opengl

import (
	"embed"
	"fmt"
	"path"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/orbworks/orrery"
)

//go:embed shaders
var shaders embed.FS

// bodyStride is the size in bytes of one body vertex:
// position (2 floats), radius (1 float), color (4 floats).
const bodyStride = 7 * 4

// display contains all the OpenGL objects required to draw a frame.
type display struct {
	maxBodies int
	minPixels float64

	prog struct {
		body  uint32
		trail uint32
	}
	vao struct {
		body  uint32
		trail uint32
	}
	buf struct {
		body  uint32
		trail uint32
	}
	uni struct {
		bodyScale   int32
		bodyOffset  int32
		trailScale  int32
		trailOffset int32
		trailColor  int32
	}

	verts []float32 // scratch vertex data, reused every frame
}

// newDisplay compiles shaders and initializes buffers for up to
// maxBodies bodies.
func newDisplay(maxBodies int, minPixels float64) (*display, error) {
	d := &display{maxBodies: maxBodies, minPixels: minPixels}

	var err error
	d.prog.body, err = makeProg("body.vert", "body.geom", "body.frag")
	if err != nil {
		return nil, err
	}
	d.prog.trail, err = makeProg("trail.vert", "trail.frag")
	if err != nil {
		return nil, err
	}

	// uniform locations cannot be specified in the shaders in OpenGL 3.3 core
	d.uni.bodyScale = gl.GetUniformLocation(d.prog.body, gl.Str("scale\x00"))
	d.uni.bodyOffset = gl.GetUniformLocation(d.prog.body, gl.Str("offset\x00"))
	d.uni.trailScale = gl.GetUniformLocation(d.prog.trail, gl.Str("scale\x00"))
	d.uni.trailOffset = gl.GetUniformLocation(d.prog.trail, gl.Str("offset\x00"))
	d.uni.trailColor = gl.GetUniformLocation(d.prog.trail, gl.Str("color\x00"))

	// one point per body, expanded to a disc by the geometry shader
	gl.GenVertexArrays(1, &d.vao.body)
	gl.BindVertexArray(d.vao.body)
	gl.GenBuffers(1, &d.buf.body)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.body)
	gl.BufferData(gl.ARRAY_BUFFER, maxBodies*bodyStride, nil, gl.STREAM_DRAW)

	// attribute locations are specified in the shaders with layout(location=n)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, bodyStride, nil)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, bodyStride, gl.PtrOffset(8))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, bodyStride, gl.PtrOffset(12))

	// one line strip per trail, uploaded body by body
	gl.GenVertexArrays(1, &d.vao.trail)
	gl.BindVertexArray(d.vao.trail)
	gl.GenBuffers(1, &d.buf.trail)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.trail)
	gl.BufferData(gl.ARRAY_BUFFER, orrery.TrailCap*2*4, nil, gl.STREAM_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return d, nil
}

// draw renders one frame: trails first, then the bodies on top.
func (d *display) draw(views []orrery.View, cam Camera) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if len(views) > d.maxBodies {
		views = views[:d.maxBodies]
	}
	d.drawTrails(views, cam)
	d.drawBodies(views, cam)
}

// drawTrails draws each body's trail as a line strip in its color.
func (d *display) drawTrails(views []orrery.View, cam Camera) {
	gl.UseProgram(d.prog.trail)
	scale, off := cam.glTransform()
	gl.Uniform2f(d.uni.trailScale, float32(scale.X), float32(scale.Y))
	gl.Uniform2f(d.uni.trailOffset, float32(off.X), float32(off.Y))
	gl.BindVertexArray(d.vao.trail)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.trail)
	for _, v := range views {
		if len(v.Trail) < 2 {
			continue
		}
		d.verts = d.verts[:0]
		for _, p := range v.Trail {
			d.verts = append(d.verts, float32(p.X), float32(p.Y))
		}
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(d.verts)*4, gl.Ptr(d.verts))
		// trails render at half the body's alpha
		gl.Uniform4f(d.uni.trailColor, v.Color[0], v.Color[1], v.Color[2], 0.5*v.Color[3])
		gl.DrawArrays(gl.LINE_STRIP, 0, int32(len(v.Trail)))
	}
}

// drawBodies streams the bodies to the GPU and draws them as discs.
// Radii are clamped so a body never shrinks below minPixels on screen.
func (d *display) drawBodies(views []orrery.View, cam Camera) {
	if len(views) == 0 {
		return
	}
	min := d.minPixels / cam.Zoom
	d.verts = d.verts[:0]
	for _, v := range views {
		r := v.Radius
		if r < min {
			r = min
		}
		d.verts = append(d.verts,
			float32(v.Pos.X), float32(v.Pos.Y), float32(r),
			v.Color[0], v.Color[1], v.Color[2], v.Color[3])
	}
	gl.UseProgram(d.prog.body)
	scale, off := cam.glTransform()
	gl.Uniform2f(d.uni.bodyScale, float32(scale.X), float32(scale.Y))
	gl.Uniform2f(d.uni.bodyOffset, float32(off.X), float32(off.Y))
	gl.BindVertexArray(d.vao.body)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.body)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(d.verts)*4, gl.Ptr(d.verts))
	gl.DrawArrays(gl.POINTS, 0, int32(len(views)))
}

// makeProg compiles and links the named GLSL sources into a program.
func makeProg(names ...string) (uint32, error) {
	stages := map[string]uint32{
		".vert": gl.VERTEX_SHADER,
		".geom": gl.GEOMETRY_SHADER,
		".frag": gl.FRAGMENT_SHADER,
	}
	var fail bool
	objs := make([]uint32, 0, len(names))
	for _, name := range names {
		src, err := shaders.ReadFile("shaders/" + name)
		if err != nil {
			return 0, fmt.Errorf("opengl: %w", err)
		}
		sh := gl.CreateShader(stages[path.Ext(name)])
		str, free := gl.Strs(string(src) + "\x00")
		gl.ShaderSource(sh, 1, str, nil)
		free()
		gl.CompileShader(sh)
		var status int32
		gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &n)
			log := make([]uint8, n)
			gl.GetShaderInfoLog(sh, n, &n, &log[0])
			fmt.Printf("### shader compilation error: %s ###\n\n%s\n\n", name, gl.GoStr(&log[0]))
			fail = true
			gl.DeleteShader(sh)
			continue
		}
		objs = append(objs, sh)
	}
	if fail {
		return 0, fmt.Errorf("opengl: GLSL errors")
	}
	prog := gl.CreateProgram()
	for _, sh := range objs {
		gl.AttachShader(prog, sh)
	}
	gl.LinkProgram(prog)

	return prog, nil
}
