package staple

import (
	"math"

	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec3"
)

const gimbalEpsilon = 1e-6

func normalizeDegrees(v float64) float32 {
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	if math.Abs(v) < 1e-4 || math.Abs(v-360) < 1e-4 {
		v = 0
	}
	return float32(v)
}

// EulerAngles 四元数转欧拉角(度), 旋转顺序 Z, X, Y
func EulerAngles(q quaternion.T) vec3.T {
	x, y, z, w := float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3])
	n := math.Sqrt(x*x + y*y + z*z + w*w)
	if n == 0 {
		return vec3.T{}
	}
	x, y, z, w = x/n, y/n, z/n, w/n

	m00 := 1 - 2*(y*y+z*z)
	m01 := 2 * (x*y - z*w)
	m02 := 2 * (x*z + y*w)
	m10 := 2 * (x*y + z*w)
	m11 := 1 - 2*(x*x+z*z)
	m12 := 2 * (y*z - x*w)
	m22 := 1 - 2*(x*x+y*y)

	sa := math.Max(-1, math.Min(1, -m12))
	var ax, ay, az float64
	switch {
	case sa >= 1-gimbalEpsilon:
		ax = math.Pi / 2
		ay = math.Atan2(m01, m00)
	case sa <= -1+gimbalEpsilon:
		ax = -math.Pi / 2
		ay = math.Atan2(-m01, m00)
	default:
		ax = math.Asin(sa)
		ay = math.Atan2(m02, m22)
		az = math.Atan2(m10, m11)
	}

	return vec3.T{
		normalizeDegrees(ax * 180 / math.Pi),
		normalizeDegrees(ay * 180 / math.Pi),
		normalizeDegrees(az * 180 / math.Pi),
	}
}

func mulQuat(a, b [4]float64) [4]float64 {
	return [4]float64{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}

// FromEulerAngles 欧拉角(度)转四元数, 与 EulerAngles 互逆
func FromEulerAngles(deg vec3.T) quaternion.T {
	half := func(d float32) (float64, float64) {
		r := float64(d) * math.Pi / 360
		return math.Sin(r), math.Cos(r)
	}
	sx, cx := half(deg[0])
	sy, cy := half(deg[1])
	sz, cz := half(deg[2])
	q := mulQuat(mulQuat([4]float64{0, sy, 0, cy}, [4]float64{sx, 0, 0, cx}), [4]float64{0, 0, sz, cz})
	return quaternion.T{float32(q[0]), float32(q[1]), float32(q[2]), float32(q[3])}
}

// DecomposeMatrix 列主序矩阵拆分为 TRS
func DecomposeMatrix(m [16]float32) Transform {
	t := IdentityTransform()
	t.Position = vec3.T{m[12], m[13], m[14]}

	c0 := vec3.T{m[0], m[1], m[2]}
	c1 := vec3.T{m[4], m[5], m[6]}
	c2 := vec3.T{m[8], m[9], m[10]}
	sx, sy, sz := c0.Length(), c1.Length(), c2.Length()

	det := float64(c0[0])*(float64(c1[1])*float64(c2[2])-float64(c2[1])*float64(c1[2])) -
		float64(c1[0])*(float64(c0[1])*float64(c2[2])-float64(c2[1])*float64(c0[2])) +
		float64(c2[0])*(float64(c0[1])*float64(c1[2])-float64(c1[1])*float64(c0[2]))
	if det < 0 {
		sx = -sx
	}
	t.Scale = vec3.T{sx, sy, sz}
	if sx == 0 || sy == 0 || sz == 0 {
		return t
	}

	var r [3][3]float64
	for i := 0; i < 3; i++ {
		r[i][0] = float64(c0[i] / sx)
		r[i][1] = float64(c1[i] / sy)
		r[i][2] = float64(c2[i] / sz)
	}

	var x, y, z, w float64
	trace := r[0][0] + r[1][1] + r[2][2]
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		w = s / 4
		x = (r[2][1] - r[1][2]) / s
		y = (r[0][2] - r[2][0]) / s
		z = (r[1][0] - r[0][1]) / s
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := math.Sqrt(1+r[0][0]-r[1][1]-r[2][2]) * 2
		w = (r[2][1] - r[1][2]) / s
		x = s / 4
		y = (r[0][1] + r[1][0]) / s
		z = (r[0][2] + r[2][0]) / s
	case r[1][1] > r[2][2]:
		s := math.Sqrt(1+r[1][1]-r[0][0]-r[2][2]) * 2
		w = (r[0][2] - r[2][0]) / s
		x = (r[0][1] + r[1][0]) / s
		y = s / 4
		z = (r[1][2] + r[2][1]) / s
	default:
		s := math.Sqrt(1+r[2][2]-r[0][0]-r[1][1]) * 2
		w = (r[1][0] - r[0][1]) / s
		x = (r[0][2] + r[2][0]) / s
		y = (r[1][2] + r[2][1]) / s
		z = s / 4
	}
	t.Rotation = quaternion.T{float32(x), float32(y), float32(z), float32(w)}
	return t
}

// 右手系(glTF)转左手系: 翻转 Z 轴
func flipHandedness(t Transform) Transform {
	t.Position[2] = -t.Position[2]
	t.Rotation[0] = -t.Rotation[0]
	t.Rotation[1] = -t.Rotation[1]
	return t
}
