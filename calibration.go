package multiview

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// CalibrationDim is the number of intrinsic parameters of a Calibration,
// in the order fx, fy, skew, cx, cy.
const CalibrationDim = 5

// Calibration holds pinhole intrinsics.
type Calibration struct {
	Fx, Fy float64 // focal lengths, pixels
	Skew   float64
	Cx, Cy float64 // principal point, pixels
}

// Matrix returns the 3x3 camera matrix K.
func (c Calibration) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		c.Fx, c.Skew, c.Cx,
		0, c.Fy, c.Cy,
		0, 0, 1,
	})
}

// Uncalibrate maps a normalized image point to a pixel.
func (c Calibration) Uncalibrate(p r2.Point) r2.Point {
	return r2.Point{
		X: c.Fx*p.X + c.Skew*p.Y + c.Cx,
		Y: c.Fy*p.Y + c.Cy,
	}
}

// Calibrate maps a pixel back to a normalized image point.
func (c Calibration) Calibrate(p r2.Point) r2.Point {
	v := (p.Y - c.Cy) / c.Fy
	u := (p.X - c.Cx - c.Skew*v) / c.Fx
	return r2.Point{X: u, Y: v}
}

func (c Calibration) Equal(other Calibration, tol float64) bool {
	return math.Abs(c.Fx-other.Fx) <= tol &&
		math.Abs(c.Fy-other.Fy) <= tol &&
		math.Abs(c.Skew-other.Skew) <= tol &&
		math.Abs(c.Cx-other.Cx) <= tol &&
		math.Abs(c.Cy-other.Cy) <= tol
}

func (c Calibration) String() string {
	return fmt.Sprintf("K(fx=%.2f fy=%.2f s=%.3f cx=%.2f cy=%.2f)",
		c.Fx, c.Fy, c.Skew, c.Cx, c.Cy)
}
