package multiview

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Observation pairs a camera's 3x4 projection matrix with the pixel at which
// it saw the point being triangulated.
type Observation struct {
	Proj  *mat.Dense
	Pixel r2.Point
}

// TriangulatePoint recovers a world point from two or more observations by
// direct linear transform: each observation contributes two rows to a
// homogeneous design matrix whose smallest singular vector is the point.
func TriangulatePoint(obs []Observation) (r3.Vector, error) {
	if len(obs) < 2 {
		return r3.Vector{}, invalidConfigurationf(
			"need at least two observations to triangulate, have %d", len(obs))
	}

	a := mat.NewDense(2*len(obs), 4, nil)
	for i, o := range obs {
		p0, p1, p2 := o.Proj.RowView(0), o.Proj.RowView(1), o.Proj.RowView(2)
		for c := 0; c < 4; c++ {
			a.Set(2*i, c, o.Pixel.Y*p2.AtVec(c)-p1.AtVec(c))
			a.Set(2*i+1, c, p0.AtVec(c)-o.Pixel.X*p2.AtVec(c))
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return r3.Vector{}, fmt.Errorf("triangulation: SVD of %dx4 design matrix failed", 2*len(obs))
	}
	var v mat.Dense
	svd.VTo(&v)
	h := v.ColView(3) // singular vector of the smallest singular value
	w := h.AtVec(3)
	if w == 0 {
		return r3.Vector{}, fmt.Errorf("triangulation: point at infinity")
	}
	return r3.Vector{X: h.AtVec(0) / w, Y: h.AtVec(1) / w, Z: h.AtVec(2) / w}, nil
}

// Triangulate runs TriangulatePoint over a camera set and one pixel per
// camera, in set order.
func Triangulate[C ProjectiveCamera](set *CameraSet[C], pixels []r2.Point) (r3.Vector, error) {
	if set.Len() != len(pixels) {
		return r3.Vector{}, invalidConfigurationf(
			"have %d cameras but %d pixels", set.Len(), len(pixels))
	}
	obs := make([]Observation, set.Len())
	for i := range obs {
		obs[i] = Observation{Proj: set.At(i).ProjectionMatrix(), Pixel: pixels[i]}
	}
	return TriangulatePoint(obs)
}
