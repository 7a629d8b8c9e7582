package mesh

// BezierPatch is a 4x4 control-point grid in canvas space, evaluated as the
// tensor product of cubic Bernstein polynomials in (u,v).
type BezierPatch struct {
	// Points is laid out [row][col], row = v index, col = u index.
	Points [4][4]Vec2
}

// NewBezierPatch builds an identity patch: a flat grid over the unit
// square, control points evenly spaced.
func NewBezierPatch() *BezierPatch {
	p := &BezierPatch{}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			p.Points[r][c] = Vec2{
				X: float32(c) / 3,
				Y: float32(r) / 3,
			}
		}
	}
	return p
}

// bernstein3 returns the four cubic Bernstein basis values at t.
func bernstein3(t float32) [4]float32 {
	mt := 1 - t
	return [4]float32{
		mt * mt * mt,
		3 * mt * mt * t,
		3 * mt * t * t,
		t * t * t,
	}
}

// Evaluate returns the patch surface position at parametric (u,v) in
// [0,1]^2.
func (p *BezierPatch) Evaluate(u, v float32) Vec2 {
	bu := bernstein3(u)
	bv := bernstein3(v)
	var out Vec2
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			weight := bv[r] * bu[c]
			out.X += weight * p.Points[r][c].X
			out.Y += weight * p.Points[r][c].Y
		}
	}
	return out
}

// SetCorners pins the four corner control points and derives the
// remaining 12: the 8 edge points by linear interpolation along each edge,
// and the 4 interior points by bilinear interpolation of the corners.
//
// Corner order: C0=(u=0,v=0), C1=(u=1,v=0), C2=(u=1,v=1), C3=(u=0,v=1).
func (p *BezierPatch) SetCorners(c0, c1, c2, c3 Vec2) {
	p.Points[0][0] = c0
	p.Points[0][3] = c1
	p.Points[3][3] = c2
	p.Points[3][0] = c3

	// Top edge (v=0): between C0 and C1.
	p.Points[0][1] = lerp(c0, c1, 1.0/3)
	p.Points[0][2] = lerp(c0, c1, 2.0/3)
	// Bottom edge (v=1): between C3 and C2.
	p.Points[3][1] = lerp(c3, c2, 1.0/3)
	p.Points[3][2] = lerp(c3, c2, 2.0/3)
	// Left edge (u=0): between C0 and C3.
	p.Points[1][0] = lerp(c0, c3, 1.0/3)
	p.Points[2][0] = lerp(c0, c3, 2.0/3)
	// Right edge (u=1): between C1 and C2.
	p.Points[1][3] = lerp(c1, c2, 1.0/3)
	p.Points[2][3] = lerp(c1, c2, 2.0/3)

	// Interior points: bilinear interpolation of the four corners at the
	// interior (u,v) grid positions (1/3, 2/3).
	for r := 1; r <= 2; r++ {
		v := float32(r) / 3
		for c := 1; c <= 2; c++ {
			u := float32(c) / 3
			p.Points[r][c] = bilinear(c0, c1, c2, c3, u, v)
		}
	}
}

func lerp(a, b Vec2, t float32) Vec2 {
	return Vec2{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// bilinear interpolates corners laid out C0=(0,0) C1=(1,0) C2=(1,1) C3=(0,1)
// at parametric (u,v).
func bilinear(c0, c1, c2, c3 Vec2, u, v float32) Vec2 {
	top := lerp(c0, c1, u)
	bottom := lerp(c3, c2, u)
	return lerp(top, bottom, v)
}

// ApplyToMesh replaces every vertex position in m with the patch evaluated
// at that vertex's uv.
func (p *BezierPatch) ApplyToMesh(m *Mesh) {
	for i := range m.Vertices {
		uv := m.Vertices[i].UV
		m.Vertices[i].Position = p.Evaluate(uv.X, uv.Y)
	}
}

// ApplyToQuad is a convenience that sets corners from a 4-corner keystone
// and applies the resulting patch to m in one step.
func ApplyToQuad(m *Mesh, corners [4]Vec2) {
	p := NewBezierPatch()
	p.SetCorners(corners[0], corners[1], corners[2], corners[3])
	p.ApplyToMesh(m)
}

// WarpedGrid builds a rows x cols grid mesh and bends it through the
// Bezier patch described by corners.
func WarpedGrid(rows, cols int, corners [4]Vec2) *Mesh {
	m := Grid(rows, cols)
	ApplyToQuad(m, corners)
	return m
}
