package multiview

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// FitViewSphere fits a least-squares sphere through the camera centers of an
// orbit-style rig. Solving A*[cx cy cz f] = |C|^2 with rows [2Cx 2Cy 2Cz 1]
// gives the center directly and the radius as sqrt(cx^2+cy^2+cz^2+f).
func FitViewSphere[C PosedCamera](set *CameraSet[C]) (float64, r3.Vector, error) {
	n := set.Len()
	if n < 4 {
		return 0, r3.Vector{}, invalidConfigurationf(
			"need at least four camera centers to fit a sphere, have %d", n)
	}

	a := mat.NewDense(n, 4, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		c := set.At(i).CameraPose().Center
		a.SetRow(i, []float64{2 * c.X, 2 * c.Y, 2 * c.Z, 1})
		b.SetVec(i, c.X*c.X+c.Y*c.Y+c.Z*c.Z)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return 0, r3.Vector{}, fmt.Errorf("sphere fit: SVD of %dx4 design matrix failed", n)
	}
	rank := svd.Rank(1e-12)
	if rank < 4 {
		return 0, r3.Vector{}, fmt.Errorf("sphere fit: camera centers are rank deficient (rank %d)", rank)
	}
	var x mat.Dense
	svd.SolveTo(&x, b, rank)

	cx, cy, cz, f := x.At(0, 0), x.At(1, 0), x.At(2, 0), x.At(3, 0)
	radius := math.Sqrt(cx*cx + cy*cy + cz*cz + f)
	return radius, r3.Vector{X: cx, Y: cy, Z: cz}, nil
}
