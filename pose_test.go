package multiview

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPoseRotationOrthonormal(t *testing.T) {
	t.Parallel()

	p := Pose{Omega: 0.3, Phi: -0.7, Kappa: 1.2, Center: r3.Vector{X: 1, Y: 2, Z: 3}}
	rot := p.Rotation()

	var rtr mat.Dense
	rtr.Mul(rot.T(), rot)

	eye := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	assert.True(t, mat.EqualApprox(&rtr, eye, 1e-12), "R^T R should be identity, got\n%v", FormatMatrix(&rtr))
	assert.InDelta(t, 1.0, mat.Det(rot), 1e-12)
}

func TestPoseIdentity(t *testing.T) {
	t.Parallel()

	var p Pose
	eye := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	assert.True(t, mat.EqualApprox(p.Rotation(), eye, 1e-15))
}

func TestPoseTransform(t *testing.T) {
	t.Parallel()

	p := NewPoseDegrees(10, -20, 30, r3.Vector{X: 0.5, Y: -1, Z: 2})

	t.Run("center maps to origin", func(t *testing.T) {
		t.Parallel()
		q := p.Transform(p.Center)
		assert.InDelta(t, 0, q.X, 1e-12)
		assert.InDelta(t, 0, q.Y, 1e-12)
		assert.InDelta(t, 0, q.Z, 1e-12)
	})

	t.Run("matches 3x4 matrix", func(t *testing.T) {
		t.Parallel()
		x := r3.Vector{X: 0.3, Y: 0.7, Z: 5}
		q := p.Transform(x)

		var qh mat.VecDense
		qh.MulVec(p.Matrix(), mat.NewVecDense(4, []float64{x.X, x.Y, x.Z, 1}))
		assert.InDelta(t, q.X, qh.AtVec(0), 1e-12)
		assert.InDelta(t, q.Y, qh.AtVec(1), 1e-12)
		assert.InDelta(t, q.Z, qh.AtVec(2), 1e-12)
	})
}

func TestPoseRotationPartials(t *testing.T) {
	t.Parallel()

	p := Pose{Omega: 0.4, Phi: -0.25, Kappa: 0.9}
	dOmega, dPhi, dKappa := p.rotationPartials()

	const h = 1e-7
	numeric := func(bump func(Pose, float64) Pose) *mat.Dense {
		var plus, minus mat.Dense
		plus.CloneFrom(bump(p, h).Rotation())
		minus.CloneFrom(bump(p, -h).Rotation())
		var diff mat.Dense
		diff.Sub(&plus, &minus)
		diff.Scale(1/(2*h), &diff)
		return &diff
	}

	require.True(t, mat.EqualApprox(dOmega, numeric(func(q Pose, d float64) Pose { q.Omega += d; return q }), 1e-6))
	require.True(t, mat.EqualApprox(dPhi, numeric(func(q Pose, d float64) Pose { q.Phi += d; return q }), 1e-6))
	require.True(t, mat.EqualApprox(dKappa, numeric(func(q Pose, d float64) Pose { q.Kappa += d; return q }), 1e-6))
}

func TestPoseEqual(t *testing.T) {
	t.Parallel()

	p := NewPoseDegrees(1, 2, 3, r3.Vector{X: 4, Y: 5, Z: 6})
	q := p
	q.Center.X += 1e-12
	assert.True(t, p.Equal(q, 1e-9))

	q.Kappa += 1e-3
	assert.False(t, p.Equal(q, 1e-9))
}
