package multiview

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitViewSphere(t *testing.T) {
	t.Parallel()

	const radius = 2.5
	center := r3.Vector{X: 1, Y: -1, Z: 0.5}

	set := NewCameraSet[CalibratedCamera]()
	angles := []struct{ lon, lat float64 }{
		{0, 0}, {1.1, 0.4}, {2.3, -0.6}, {3.7, 0.9}, {4.9, -0.2}, {5.8, 0.7},
	}
	for _, a := range angles {
		c := r3.Vector{
			X: center.X + radius*math.Cos(a.lat)*math.Cos(a.lon),
			Y: center.Y + radius*math.Cos(a.lat)*math.Sin(a.lon),
			Z: center.Z + radius*math.Sin(a.lat),
		}
		set.Add(NewCalibratedCamera(Pose{Center: c}))
	}

	gotRadius, gotCenter, err := FitViewSphere(set)
	require.NoError(t, err)
	assert.InDelta(t, radius, gotRadius, 1e-9)
	assert.InDelta(t, center.X, gotCenter.X, 1e-9)
	assert.InDelta(t, center.Y, gotCenter.Y, 1e-9)
	assert.InDelta(t, center.Z, gotCenter.Z, 1e-9)
}

func TestFitViewSphereTooFewCameras(t *testing.T) {
	t.Parallel()

	set := NewCameraSet[CalibratedCamera](
		NewCalibratedCamera(Pose{}),
		NewCalibratedCamera(Pose{Center: r3.Vector{X: 1}}),
	)
	_, _, err := FitViewSphere(set)
	require.Error(t, err)
	var ic *InvalidConfigurationError
	assert.ErrorAs(t, err, &ic)
}
