package multiview

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FormatMatrix wraps a matrix for indented printing.
func FormatMatrix(matrix mat.Matrix) fmt.Formatter {
	return mat.Formatted(matrix, mat.Prefix("    "), mat.Squeeze())
}

func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func Degrees2Rad(deg float64) float64 {
	res := deg * math.Pi / 180
	return roundFloat(res, 10)
}

func Rad2Degrees(rad float64) float64 {
	res := rad * 180 / math.Pi
	return roundFloat(res, 10)
}
