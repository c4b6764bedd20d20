package multiview

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// PoseDim is the number of exterior orientation parameters of any camera,
// in the order omega, phi, kappa, Cx, Cy, Cz.
const PoseDim = 6

// Camera is the capability a CameraSet requires of its elements: projection
// of a world point with optional derivatives, plus structural equality.
//
// Project fills any non-nil Jacobian destination in place. A destination is
// either empty (it gets sized ZDim rows by the parameter count of that kind)
// or already shaped, as with the block views a CameraSet hands out. Cameras
// with a fixed calibration (Dim() == PoseDim) never receive a calibJac.
type Camera interface {
	// Dim is the full parameter count: PoseDim plus the calibration dimension.
	Dim() int
	// MeasurementDim is the dimension of one measurement (ZDim).
	MeasurementDim() int
	Project(point r3.Vector, poseJac, pointJac, calibJac *mat.Dense) (*mat.VecDense, error)
	Equal(other Camera, tol float64) bool
	fmt.Stringer
}

// ProjectiveCamera is a Camera that can express itself as a 3x4 projection
// matrix, which is what DLT triangulation consumes.
type ProjectiveCamera interface {
	Camera
	ProjectionMatrix() *mat.Dense
}

// PosedCamera is a Camera that exposes its exterior orientation.
type PosedCamera interface {
	Camera
	CameraPose() Pose
}

// reuseDense sizes dst to r x c, reusing its backing storage when possible.
// A non-empty dst must already have the requested shape.
func reuseDense(dst *mat.Dense, r, c int) error {
	if dst.IsEmpty() {
		dst.ReuseAs(r, c)
		return nil
	}
	rr, cc := dst.Dims()
	if rr != r || cc != c {
		return invalidConfigurationf("output buffer is %dx%d, want %dx%d", rr, cc, r, c)
	}
	return nil
}

// fillPoseAndPointJacobians writes the derivatives of the intermediate image
// quantity a*q, where q = R*(x-C), into poseJac (ZDim x 6) and pointJac
// (ZDim x 3). a is the ZDim x 3 derivative of the measurement with respect
// to the camera-frame point q; d is x - C in world coordinates.
func fillPoseAndPointJacobians(pose Pose, rot, a *mat.Dense, d r3.Vector, poseJac, pointJac *mat.Dense) error {
	zdim, _ := a.Dims()

	var ar mat.Dense // a * R = d(measurement)/d(world point)
	ar.Mul(a, rot)

	if pointJac != nil {
		if err := reuseDense(pointJac, zdim, 3); err != nil {
			return err
		}
		pointJac.Copy(&ar)
	}

	if poseJac != nil {
		if err := reuseDense(poseJac, zdim, PoseDim); err != nil {
			return err
		}
		dOmega, dPhi, dKappa := pose.rotationPartials()
		for col, dr := range []*mat.Dense{dOmega, dPhi, dKappa} {
			w := rotate(dr, d) // dq/d(angle)
			for row := 0; row < zdim; row++ {
				poseJac.Set(row, col,
					a.At(row, 0)*w.X+a.At(row, 1)*w.Y+a.At(row, 2)*w.Z)
			}
		}
		// dq/dC = -R, so the translation block is just -a*R.
		for row := 0; row < zdim; row++ {
			for col := 0; col < 3; col++ {
				poseJac.Set(row, 3+col, -ar.At(row, col))
			}
		}
	}
	return nil
}

// PinholeCamera is a pose plus a 5-parameter pinhole calibration; it measures
// pixels.
type PinholeCamera struct {
	Pose  Pose
	Calib Calibration
}

func NewPinholeCamera(pose Pose, calib Calibration) PinholeCamera {
	return PinholeCamera{Pose: pose, Calib: calib}
}

func (c PinholeCamera) Dim() int            { return PoseDim + CalibrationDim }
func (c PinholeCamera) MeasurementDim() int { return 2 }
func (c PinholeCamera) CameraPose() Pose    { return c.Pose }

// ProjectionMatrix returns K*[R | -R*C].
func (c PinholeCamera) ProjectionMatrix() *mat.Dense {
	var proj mat.Dense
	proj.Mul(c.Calib.Matrix(), c.Pose.Matrix())
	return &proj
}

// Project maps a world point to a pixel measurement, filling any requested
// Jacobian in place. It fails with DegenerateGeometryError when the point is
// behind or at the camera center.
func (c PinholeCamera) Project(point r3.Vector, poseJac, pointJac, calibJac *mat.Dense) (*mat.VecDense, error) {
	rot := c.Pose.Rotation()
	d := point.Sub(c.Pose.Center)
	q := rotate(rot, d)
	if q.Z <= 0 {
		return nil, &DegenerateGeometryError{Point: point, Depth: q.Z}
	}

	u, v := q.X/q.Z, q.Y/q.Z
	pix := c.Calib.Uncalibrate(r2.Point{X: u, Y: v})
	z := mat.NewVecDense(2, []float64{pix.X, pix.Y})

	if poseJac != nil || pointJac != nil {
		// d(pixel)/dq, the calibration map composed with perspective division.
		a := mat.NewDense(2, 3, []float64{
			c.Calib.Fx / q.Z, c.Calib.Skew / q.Z, -(c.Calib.Fx*u + c.Calib.Skew*v) / q.Z,
			0, c.Calib.Fy / q.Z, -c.Calib.Fy * v / q.Z,
		})
		if err := fillPoseAndPointJacobians(c.Pose, rot, a, d, poseJac, pointJac); err != nil {
			return nil, err
		}
	}

	if calibJac != nil {
		if err := reuseDense(calibJac, 2, CalibrationDim); err != nil {
			return nil, err
		}
		// Rows follow the fx, fy, skew, cx, cy parameter order.
		calibJac.SetRow(0, []float64{u, 0, v, 1, 0})
		calibJac.SetRow(1, []float64{0, v, 0, 0, 1})
	}
	return z, nil
}

// ProjectPoint is Project without derivatives, returning the pixel directly.
func (c PinholeCamera) ProjectPoint(point r3.Vector) (r2.Point, error) {
	z, err := c.Project(point, nil, nil, nil)
	if err != nil {
		return r2.Point{}, err
	}
	return r2.Point{X: z.AtVec(0), Y: z.AtVec(1)}, nil
}

func (c PinholeCamera) Equal(other Camera, tol float64) bool {
	o, ok := other.(PinholeCamera)
	if !ok {
		return false
	}
	return c.Pose.Equal(o.Pose, tol) && c.Calib.Equal(o.Calib, tol)
}

func (c PinholeCamera) String() string {
	return fmt.Sprintf("pinhole{%v, %v}", c.Pose, c.Calib)
}

// CalibratedCamera is a pose-only camera whose calibration is fixed and
// known; it measures normalized image points. Its parameter dimension is
// PoseDim, so a CameraSet never requests a calibration Jacobian from it.
type CalibratedCamera struct {
	Pose Pose
}

func NewCalibratedCamera(pose Pose) CalibratedCamera {
	return CalibratedCamera{Pose: pose}
}

func (c CalibratedCamera) Dim() int            { return PoseDim }
func (c CalibratedCamera) MeasurementDim() int { return 2 }
func (c CalibratedCamera) CameraPose() Pose    { return c.Pose }

// ProjectionMatrix returns [R | -R*C].
func (c CalibratedCamera) ProjectionMatrix() *mat.Dense {
	return c.Pose.Matrix()
}

func (c CalibratedCamera) Project(point r3.Vector, poseJac, pointJac, calibJac *mat.Dense) (*mat.VecDense, error) {
	rot := c.Pose.Rotation()
	d := point.Sub(c.Pose.Center)
	q := rotate(rot, d)
	if q.Z <= 0 {
		return nil, &DegenerateGeometryError{Point: point, Depth: q.Z}
	}

	u, v := q.X/q.Z, q.Y/q.Z
	z := mat.NewVecDense(2, []float64{u, v})

	if poseJac != nil || pointJac != nil {
		a := mat.NewDense(2, 3, []float64{
			1 / q.Z, 0, -u / q.Z,
			0, 1 / q.Z, -v / q.Z,
		})
		if err := fillPoseAndPointJacobians(c.Pose, rot, a, d, poseJac, pointJac); err != nil {
			return nil, err
		}
	}
	return z, nil
}

func (c CalibratedCamera) Equal(other Camera, tol float64) bool {
	o, ok := other.(CalibratedCamera)
	if !ok {
		return false
	}
	return c.Pose.Equal(o.Pose, tol)
}

func (c CalibratedCamera) String() string {
	return fmt.Sprintf("calibrated{%v}", c.Pose)
}
