package multiview

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// CameraSet is an ordered collection of cameras observing the same scene,
// the projection aggregator behind smart-factor style linearization. Append
// order is measurement order: camera i owns row block [ZDim*i, ZDim*(i+1))
// of every stacked Jacobian.
//
// Instantiate with a concrete camera type for a homogeneous rig, or with the
// Camera interface itself when per-element types must vary; Project rejects
// mixed dimensions either way. A set is not safe for concurrent mutation;
// concurrent Project calls on a fully built set are safe as long as each
// caller passes its own destination buffers.
type CameraSet[C Camera] struct {
	cameras []C
}

// NewCameraSet builds a set from cameras in measurement order.
func NewCameraSet[C Camera](cameras ...C) *CameraSet[C] {
	return &CameraSet[C]{cameras: append([]C(nil), cameras...)}
}

// Add appends a camera. It never fails and performs no validation; Project
// checks dimensional compatibility.
func (s *CameraSet[C]) Add(camera C) {
	s.cameras = append(s.cameras, camera)
}

// Len returns the number of cameras.
func (s *CameraSet[C]) Len() int { return len(s.cameras) }

// At returns the camera at index i.
func (s *CameraSet[C]) At(i int) C { return s.cameras[i] }

// Equal reports whether both sets hold pairwise equal cameras, within tol,
// in the same order.
func (s *CameraSet[C]) Equal(other *CameraSet[C], tol float64) bool {
	if other == nil || len(s.cameras) != len(other.cameras) {
		return false
	}
	for i := range s.cameras {
		if !s.cameras[i].Equal(other.cameras[i], tol) {
			return false
		}
	}
	return true
}

// resizeDense sizes dst to r x c for a fresh fill, reusing the backing
// storage from earlier calls when its capacity suffices.
func resizeDense(dst *mat.Dense, r, c int) {
	if !dst.IsEmpty() {
		dst.Reset()
	}
	dst.ReuseAs(r, c)
}

// checkHomogeneous verifies that every camera shares camera 0's measurement
// and parameter dimensions.
func (s *CameraSet[C]) checkHomogeneous(zdim, dim int) error {
	for i, cam := range s.cameras {
		if cam.MeasurementDim() != zdim || cam.Dim() != dim {
			return invalidConfigurationf(
				"camera %d has dims (ZDim=%d, Dim=%d), camera 0 has (ZDim=%d, Dim=%d)",
				i, cam.MeasurementDim(), cam.Dim(), zdim, dim)
		}
	}
	return nil
}

// Project computes every camera's predicted measurement of point, in
// insertion order, and fills any non-nil Jacobian destination:
//
//	poseJac  (ZDim*N) x 6           derivative w.r.t. each camera's pose
//	pointJac (ZDim*N) x 3           derivative w.r.t. the world point
//	calibJac (ZDim*N) x (Dim-6)     derivative w.r.t. each camera's calibration
//
// A nil destination skips that computation. Destinations are pre-sized to
// their final shape before the camera loop and filled block by block; each
// camera writes its own ZDim-row blocks through views, so no per-camera
// copies are made. calibJac is left empty when the cameras carry a fixed
// calibration (Dim == 6).
//
// The call is all-or-nothing: if any camera reports DegenerateGeometryError
// the error is returned unmodified, the measurement slice is nil, and the
// destination contents are meaningless. An empty set yields an empty
// measurement slice, empty destinations and no error.
func (s *CameraSet[C]) Project(point r3.Vector, poseJac, pointJac, calibJac *mat.Dense) ([]*mat.VecDense, error) {
	n := len(s.cameras)
	if n == 0 {
		for _, dst := range []*mat.Dense{poseJac, pointJac, calibJac} {
			if dst != nil && !dst.IsEmpty() {
				dst.Reset()
			}
		}
		return []*mat.VecDense{}, nil
	}

	zdim := s.cameras[0].MeasurementDim()
	dim := s.cameras[0].Dim()
	if err := s.checkHomogeneous(zdim, dim); err != nil {
		return nil, err
	}

	rows := zdim * n
	if poseJac != nil {
		resizeDense(poseJac, rows, PoseDim)
	}
	if pointJac != nil {
		resizeDense(pointJac, rows, 3)
	}
	wantCalib := calibJac != nil && dim > PoseDim
	if wantCalib {
		resizeDense(calibJac, rows, dim-PoseDim)
	} else if calibJac != nil && !calibJac.IsEmpty() {
		calibJac.Reset()
	}

	z := make([]*mat.VecDense, n)
	for i, cam := range s.cameras {
		var fi, ei, hi *mat.Dense
		if poseJac != nil {
			fi = poseJac.Slice(zdim*i, zdim*(i+1), 0, PoseDim).(*mat.Dense)
		}
		if pointJac != nil {
			ei = pointJac.Slice(zdim*i, zdim*(i+1), 0, 3).(*mat.Dense)
		}
		if wantCalib {
			hi = calibJac.Slice(zdim*i, zdim*(i+1), 0, dim-PoseDim).(*mat.Dense)
		}
		zi, err := cam.Project(point, fi, ei, hi)
		if err != nil {
			return nil, err
		}
		z[i] = zi
	}
	return z, nil
}

func (s *CameraSet[C]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CameraSet, %d cameras\n", len(s.cameras))
	for i, cam := range s.cameras {
		fmt.Fprintf(&b, "  [%d] %v\n", i, cam)
	}
	return b.String()
}
