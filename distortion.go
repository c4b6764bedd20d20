package multiview

import (
	"github.com/golang/geo/r2"
)

// DistortionCoeffs is the number of lens distortion coefficients, laid out in
// OpenCV order: k1, k2, p1, p2, k3, k4, k5, k6.
const DistortionCoeffs = 8

const maxUndistortIter = 100

// Distortion models Brown-Conrady lens distortion with a rational radial
// term. Distortion applies to observed pixels before they are fed to a
// projection engine; it is not part of the projection Jacobian chain.
type Distortion [DistortionCoeffs]float64

// Distort applies the distortion model to an ideal pixel.
func (d Distortion) Distort(p r2.Point, c Calibration) r2.Point {
	k1, k2, p1, p2, k3, k4, k5, k6 := d[0], d[1], d[2], d[3], d[4], d[5], d[6], d[7]

	n := c.Calibrate(p)
	xu, yu := n.X, n.Y

	r2s := xu*xu + yu*yu
	k := (1 + k1*r2s + k2*r2s*r2s + k3*r2s*r2s*r2s) /
		(1 + k4*r2s + k5*r2s*r2s + k6*r2s*r2s*r2s)
	x := xu*k + 2*p1*xu*yu + p2*(r2s+2*xu*xu)
	y := yu*k + 2*p2*xu*yu + p1*(r2s+2*yu*yu)

	return c.Uncalibrate(r2.Point{X: x, Y: y})
}

// Undistort inverts Distort by fixed-point iteration (the closed form has no
// inverse). It stops on convergence or after maxUndistortIter rounds.
func (d Distortion) Undistort(p r2.Point, c Calibration) r2.Point {
	k1, k2, p1, p2, k3, k4, k5, k6 := d[0], d[1], d[2], d[3], d[4], d[5], d[6], d[7]

	n := c.Calibrate(p)
	x, y := n.X, n.Y
	x0, y0 := x, y

	for i := 0; i < maxUndistortIter; i++ {
		r2s := x*x + y*y
		kinv := (1 + k4*r2s + k5*r2s*r2s + k6*r2s*r2s*r2s) /
			(1 + k1*r2s + k2*r2s*r2s + k3*r2s*r2s*r2s)
		deltaX := 2*p1*x*y + p2*(r2s+2*x*x)
		deltaY := p1*(r2s+2*y*y) + 2*p2*x*y
		xant, yant := x, y
		x = (x0 - deltaX) * kinv
		y = (y0 - deltaY) * kinv
		e := (xant-x)*(xant-x) + (yant-y)*(yant-y)
		if e == 0 {
			break
		}
	}
	return c.Uncalibrate(r2.Point{X: x, Y: y})
}
