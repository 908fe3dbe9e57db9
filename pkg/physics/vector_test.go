// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestVector3D_Add(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector3D
		v2       Vector3D
		expected Vector3D
	}{
		{
			name:     "positive_vectors",
			v1:       Vector3D{X: 3, Y: 4, Z: 5},
			v2:       Vector3D{X: 1, Y: 2, Z: 3},
			expected: Vector3D{X: 4, Y: 6, Z: 8},
		},
		{
			name:     "negative_vectors",
			v1:       Vector3D{X: -3, Y: -4, Z: -5},
			v2:       Vector3D{X: -1, Y: -2, Z: -3},
			expected: Vector3D{X: -4, Y: -6, Z: -8},
		},
		{
			name:     "zero_vector",
			v1:       Vector3D{},
			v2:       Vector3D{X: 5, Y: -3, Z: 1},
			expected: Vector3D{X: 5, Y: -3, Z: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Add(tt.v2)
			if result != tt.expected {
				t.Errorf("Add() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector3D_Sub(t *testing.T) {
	v1 := Vector3D{X: 5, Y: 7, Z: 9}
	v2 := Vector3D{X: 1, Y: 2, Z: 3}
	expected := Vector3D{X: 4, Y: 5, Z: 6}

	if result := v1.Sub(v2); result != expected {
		t.Errorf("Sub() = %v, expected %v", result, expected)
	}
}

func TestVector3D_Distance(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector3D
		v2       Vector3D
		expected float64
	}{
		{
			name:     "unit_distance_x",
			v1:       Vector3D{X: 0, Y: 0, Z: 0},
			v2:       Vector3D{X: 1, Y: 0, Z: 0},
			expected: 1,
		},
		{
			name:     "pythagorean_triple",
			v1:       Vector3D{X: 0, Y: 0, Z: 0},
			v2:       Vector3D{X: 3, Y: 4, Z: 0},
			expected: 5,
		},
		{
			name:     "same_point",
			v1:       Vector3D{X: 2, Y: 2, Z: 2},
			v2:       Vector3D{X: 2, Y: 2, Z: 2},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.v1.Distance(tt.v2); !almostEqual(result, tt.expected) {
				t.Errorf("Distance() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector3D_Normalize(t *testing.T) {
	v := Vector3D{X: 3, Y: 0, Z: 4}
	n := v.Normalize()

	if !almostEqual(n.Length(), 1) {
		t.Errorf("Normalize() length = %v, expected 1", n.Length())
	}

	zero := Vector3D{}
	if result := zero.Normalize(); result != zero {
		t.Errorf("Normalize() of zero vector = %v, expected zero", result)
	}
}

func TestVector3D_Midpoint(t *testing.T) {
	v1 := Vector3D{X: 0, Y: 0, Z: 0}
	v2 := Vector3D{X: 2, Y: 4, Z: 6}
	expected := Vector3D{X: 1, Y: 2, Z: 3}

	if result := v1.Midpoint(v2); result != expected {
		t.Errorf("Midpoint() = %v, expected %v", result, expected)
	}
}

func TestVector3D_HorizontalAngle(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector3D
		expected float64
	}{
		{
			name:     "level_bar_reads_zero",
			v:        Vector3D{X: 1, Y: 0, Z: 0},
			expected: 0,
		},
		{
			name:     "right_end_forward_positive_steer",
			v:        Vector3D{X: 1, Y: 0, Z: -1},
			expected: math.Pi / 4,
		},
		{
			name:     "right_end_back_negative_steer",
			v:        Vector3D{X: 1, Y: 0, Z: 1},
			expected: -math.Pi / 4,
		},
		{
			name:     "height_ignored",
			v:        Vector3D{X: 1, Y: 5, Z: 0},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.v.HorizontalAngle(); !almostEqual(result, tt.expected) {
				t.Errorf("HorizontalAngle() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		name     string
		a, b, t  float64
		expected float64
	}{
		{name: "midpoint", a: 0, b: 10, t: 0.5, expected: 5},
		{name: "start", a: 2, b: 8, t: 0, expected: 2},
		{name: "end", a: 2, b: 8, t: 1, expected: 8},
		{name: "clamped_below", a: 0, b: 10, t: -1, expected: 0},
		{name: "clamped_above", a: 0, b: 10, t: 2, expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Lerp(tt.a, tt.b, tt.t); !almostEqual(result, tt.expected) {
				t.Errorf("Lerp() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestMapRange(t *testing.T) {
	tests := []struct {
		name           string
		value          float64
		inMin, inMax   float64
		outMin, outMax float64
		expected       float64
	}{
		{name: "below_range_clamps", value: 1, inMin: 2, inMax: 8, outMin: 3000, outMax: 800, expected: 3000},
		{name: "above_range_clamps", value: 10, inMin: 2, inMax: 8, outMin: 3000, outMax: 800, expected: 800},
		{name: "midpoint_interpolates", value: 5, inMin: 2, inMax: 8, outMin: 3000, outMax: 800, expected: 1900},
		{name: "degenerate_range", value: 5, inMin: 4, inMax: 4, outMin: 100, outMax: 200, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapRange(tt.value, tt.inMin, tt.inMax, tt.outMin, tt.outMax)
			if !almostEqual(result, tt.expected) {
				t.Errorf("MapRange() = %v, expected %v", result, tt.expected)
			}
		})
	}
}
