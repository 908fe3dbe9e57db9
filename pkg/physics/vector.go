// pkg/physics/vector.go
package physics

import "math"

// Vector3D represents a 3D vector with x, y and z components.
// Y is up; the XZ plane is the horizontal (ground) plane.
type Vector3D struct {
	X float64
	Y float64
	Z float64
}

// Add returns the sum of two vectors
func (v Vector3D) Add(other Vector3D) Vector3D {
	return Vector3D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub returns the difference between two vectors
func (v Vector3D) Sub(other Vector3D) Vector3D {
	return Vector3D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector3D) Scale(factor float64) Vector3D {
	return Vector3D{
		X: v.X * factor,
		Y: v.Y * factor,
		Z: v.Z * factor,
	}
}

// Length returns the magnitude of the vector
func (v Vector3D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector in the same direction
func (v Vector3D) Normalize() Vector3D {
	length := v.Length()
	if length == 0 {
		return Vector3D{}
	}
	return Vector3D{
		X: v.X / length,
		Y: v.Y / length,
		Z: v.Z / length,
	}
}

// Distance returns the distance between two vectors
func (v Vector3D) Distance(other Vector3D) float64 {
	return v.Sub(other).Length()
}

// Dot returns the dot product of two vectors
func (v Vector3D) Dot(other Vector3D) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Midpoint returns the point halfway between two vectors
func (v Vector3D) Midpoint(other Vector3D) Vector3D {
	return v.Add(other).Scale(0.5)
}

// HorizontalAngle returns the angle of the vector projected onto the
// XZ plane, in radians. The sign convention matches handlebar steering:
// pushing the right end forward (negative Z offset on the right side)
// yields a positive steer.
func (v Vector3D) HorizontalAngle() float64 {
	return -math.Atan2(v.Z, v.X)
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector3D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Lerp linearly interpolates between a and b by t, clamping t to [0, 1].
func Lerp(a, b, t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// MapRange maps value from the range [inMin, inMax] to [outMin, outMax],
// clamping to the output bounds. A degenerate input range collapses to outMin.
func MapRange(value, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	t := (value - inMin) / (inMax - inMin)
	return Lerp(outMin, outMax, t)
}
