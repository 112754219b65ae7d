package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera of a preview.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
	// vertical field of view in degrees
	FOVY float64
	// output size in pixels
	Width, Height int
	// supersampling factor
	Scale int
}

// DefaultView looks at the origin from the (+1,+1,+1) octant with Z up.
func DefaultView() View {
	return View{
		Up:     r3.Vec{Z: 1},
		Eye:    r3.Vec{X: 3, Y: 3, Z: 3},
		Near:   1,
		Far:    10,
		FOVY:   30,
		Width:  1024,
		Height: 768,
		Scale:  2,
	}
}

// Preview shades model with a Phong shader. The model is fit in a bi-unit
// cube centered at the origin before rendering.
func Preview(model []Triangle3, view View) (image.Image, error) {
	if len(model) == 0 {
		return nil, ErrEmptyModel
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	scale := max(view.Scale, 1)
	tris := make([]*fauxgl.Triangle, len(model))
	for i, t := range model {
		tris[i] = fauxgl.NewTriangleForPoints(fauxglVec(t.V[0]), fauxglVec(t.V[1]), fauxglVec(t.V[2]))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	mesh.BiUnitCube()

	var (
		eye    = fauxglVec(view.Eye)
		center = fauxglVec(view.LookAt)
		up     = fauxglVec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
		color  = fauxgl.HexColor("#468966")           // object color
	)
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.FOVY, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// CreatePNG renders a preview of model to a PNG file at path.
func CreatePNG(path string, model []Triangle3, view View) error {
	img, err := Preview(model, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fauxglVec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
