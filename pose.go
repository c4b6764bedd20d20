package multiview

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Pose is a camera exterior orientation: an omega-phi-kappa rotation and the
// camera center expressed in world coordinates. The world-to-camera map is
// q = R*(x - C).
type Pose struct {
	Omega, Phi, Kappa float64 // rotation angles, radians
	Center            r3.Vector
}

// NewPoseDegrees builds a Pose from rotation angles given in degrees.
func NewPoseDegrees(omega, phi, kappa float64, center r3.Vector) Pose {
	return Pose{
		Omega:  Degrees2Rad(omega),
		Phi:    Degrees2Rad(phi),
		Kappa:  Degrees2Rad(kappa),
		Center: center,
	}
}

// Rotation returns the 3x3 world-to-camera rotation matrix.
func (p Pose) Rotation() *mat.Dense {
	so, co := math.Sin(p.Omega), math.Cos(p.Omega)
	sp, cp := math.Sin(p.Phi), math.Cos(p.Phi)
	sk, ck := math.Sin(p.Kappa), math.Cos(p.Kappa)
	return mat.NewDense(3, 3, []float64{
		cp * ck, so*sp*ck + co*sk, -co*sp*ck + so*sk,
		-cp * sk, -so*sp*sk + co*ck, co*sp*sk + so*ck,
		sp, -so * cp, co * cp,
	})
}

// rotationPartials returns the element-wise derivatives of Rotation with
// respect to omega, phi and kappa.
func (p Pose) rotationPartials() (dOmega, dPhi, dKappa *mat.Dense) {
	so, co := math.Sin(p.Omega), math.Cos(p.Omega)
	sp, cp := math.Sin(p.Phi), math.Cos(p.Phi)
	sk, ck := math.Sin(p.Kappa), math.Cos(p.Kappa)

	dOmega = mat.NewDense(3, 3, []float64{
		0, co*sp*ck - so*sk, so*sp*ck + co*sk,
		0, -co*sp*sk - so*ck, -so*sp*sk + co*ck,
		0, -co * cp, -so * cp,
	})
	dPhi = mat.NewDense(3, 3, []float64{
		-sp * ck, so * cp * ck, -co * cp * ck,
		sp * sk, -so * cp * sk, co * cp * sk,
		cp, so * sp, -co * sp,
	})
	dKappa = mat.NewDense(3, 3, []float64{
		-cp * sk, -so*sp*sk + co*ck, co*sp*sk + so*ck,
		-cp * ck, -so*sp*ck - co*sk, co*sp*ck - so*sk,
		0, 0, 0,
	})
	return dOmega, dPhi, dKappa
}

// Matrix returns the 3x4 matrix [R | -R*C].
func (p Pose) Matrix() *mat.Dense {
	rot := p.Rotation()
	trans := mat.NewVecDense(3, []float64{p.Center.X, p.Center.Y, p.Center.Z})
	var rc mat.VecDense
	rc.MulVec(rot, trans)

	extrinsics := mat.NewDense(3, 4, nil)
	extrinsics.Slice(0, 3, 0, 3).(*mat.Dense).Copy(rot)
	for i := 0; i < 3; i++ {
		extrinsics.Set(i, 3, -rc.AtVec(i))
	}
	return extrinsics
}

// Transform maps a world point into the camera frame.
func (p Pose) Transform(x r3.Vector) r3.Vector {
	rot := p.Rotation()
	d := x.Sub(p.Center)
	return rotate(rot, d)
}

func rotate(rot *mat.Dense, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: rot.At(0, 0)*v.X + rot.At(0, 1)*v.Y + rot.At(0, 2)*v.Z,
		Y: rot.At(1, 0)*v.X + rot.At(1, 1)*v.Y + rot.At(1, 2)*v.Z,
		Z: rot.At(2, 0)*v.X + rot.At(2, 1)*v.Y + rot.At(2, 2)*v.Z,
	}
}

// Equal reports whether both poses agree within tol, angle-wise and
// center-wise.
func (p Pose) Equal(other Pose, tol float64) bool {
	return math.Abs(p.Omega-other.Omega) <= tol &&
		math.Abs(p.Phi-other.Phi) <= tol &&
		math.Abs(p.Kappa-other.Kappa) <= tol &&
		math.Abs(p.Center.X-other.Center.X) <= tol &&
		math.Abs(p.Center.Y-other.Center.Y) <= tol &&
		math.Abs(p.Center.Z-other.Center.Z) <= tol
}

func (p Pose) String() string {
	return fmt.Sprintf("pose(ω=%.1f° φ=%.1f° κ=%.1f°, C=(%.3f, %.3f, %.3f))",
		Rad2Degrees(p.Omega), Rad2Degrees(p.Phi), Rad2Degrees(p.Kappa),
		p.Center.X, p.Center.Y, p.Center.Z)
}
