package mapping

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// MatrixValidationTolerance is the tolerance for checking rotation matrix validity.
const MatrixValidationTolerance = 0.01

// Pose is a rigid transform between two frames, stored as a 4x4 row-major
// matrix: m00,m01,m02,m03, m10,... A pose with FromFrame="camera/front" and
// ToFrame="world" maps sensor-frame points into the global frame (T_G_C).
type Pose struct {
	FromFrame string
	ToFrame   string
	T         [16]float64
}

// IdentityPose returns the identity transform between the given frames.
func IdentityPose(fromFrame, toFrame string) Pose {
	return Pose{
		FromFrame: fromFrame,
		ToFrame:   toFrame,
		T: [16]float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		},
	}
}

// Apply transforms a point by the pose.
func (p Pose) Apply(pt Point3) Point3 {
	T := p.T
	return Point3{
		X: T[0]*pt.X + T[1]*pt.Y + T[2]*pt.Z + T[3],
		Y: T[4]*pt.X + T[5]*pt.Y + T[6]*pt.Z + T[7],
		Z: T[8]*pt.X + T[9]*pt.Y + T[10]*pt.Z + T[11],
	}
}

// Translation returns the translation component of the pose.
func (p Pose) Translation() Point3 {
	return Point3{X: p.T[3], Y: p.T[7], Z: p.T[11]}
}

// Compose returns the pose equivalent to applying q first, then p.
// The resulting pose maps q.FromFrame into p.ToFrame.
func (p Pose) Compose(q Pose) Pose {
	var out Pose
	out.FromFrame = q.FromFrame
	out.ToFrame = p.ToFrame
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += p.T[row*4+k] * q.T[k*4+col]
			}
			out.T[row*4+col] = sum
		}
	}
	return out
}

// Inverse returns the inverse rigid transform. Only valid for poses that
// pass IsValidTransform; the rotation block is transposed rather than
// numerically inverted.
func (p Pose) Inverse() Pose {
	var out Pose
	out.FromFrame = p.ToFrame
	out.ToFrame = p.FromFrame
	// Rᵀ
	out.T[0], out.T[1], out.T[2] = p.T[0], p.T[4], p.T[8]
	out.T[4], out.T[5], out.T[6] = p.T[1], p.T[5], p.T[9]
	out.T[8], out.T[9], out.T[10] = p.T[2], p.T[6], p.T[10]
	// -Rᵀ·t
	out.T[3] = -(out.T[0]*p.T[3] + out.T[1]*p.T[7] + out.T[2]*p.T[11])
	out.T[7] = -(out.T[4]*p.T[3] + out.T[5]*p.T[7] + out.T[6]*p.T[11])
	out.T[11] = -(out.T[8]*p.T[3] + out.T[9]*p.T[7] + out.T[10]*p.T[11])
	out.T[15] = 1
	return out
}

// IsValidTransform reports whether the pose matrix is a proper rigid
// transform: orthonormal rotation block with determinant +1 and an affine
// last row.
func (p Pose) IsValidTransform() bool {
	T := p.T
	if T[12] != 0 || T[13] != 0 || T[14] != 0 || math.Abs(T[15]-1.0) > 0.001 {
		return false
	}

	r := mat.NewDense(3, 3, []float64{
		T[0], T[1], T[2],
		T[4], T[5], T[6],
		T[8], T[9], T[10],
	})

	// det(R) ≈ +1 rejects reflections and scaling
	if math.Abs(mat.Det(r)-1.0) > MatrixValidationTolerance {
		return false
	}

	// R·Rᵀ ≈ I rejects shear
	var rrt mat.Dense
	rrt.Mul(r, r.T())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(rrt.At(i, j)-want) > MatrixValidationTolerance {
				return false
			}
		}
	}
	return true
}
