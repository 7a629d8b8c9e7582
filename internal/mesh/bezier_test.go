package mesh

import "testing"

func approxEqual(a, b Vec2, tol float32) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx < tol && dy < tol
}

func TestBezierCornerFidelity(t *testing.T) {
	c0 := Vec2{0, 0}
	c1 := Vec2{1, 0.2}
	c2 := Vec2{0.9, 1}
	c3 := Vec2{0.1, 0.9}

	p := NewBezierPatch()
	p.SetCorners(c0, c1, c2, c3)

	const tol = 1e-3
	if got := p.Evaluate(0, 0); !approxEqual(got, c0, tol) {
		t.Fatalf("evaluate(0,0) = %v, want %v", got, c0)
	}
	if got := p.Evaluate(1, 0); !approxEqual(got, c1, tol) {
		t.Fatalf("evaluate(1,0) = %v, want %v", got, c1)
	}
	if got := p.Evaluate(1, 1); !approxEqual(got, c2, tol) {
		t.Fatalf("evaluate(1,1) = %v, want %v", got, c2)
	}
	if got := p.Evaluate(0, 1); !approxEqual(got, c3, tol) {
		t.Fatalf("evaluate(0,1) = %v, want %v", got, c3)
	}
}

func TestIdentityPatchIsFlat(t *testing.T) {
	p := NewBezierPatch()
	got := p.Evaluate(0.5, 0.5)
	want := Vec2{0.5, 0.5}
	if !approxEqual(got, want, 1e-6) {
		t.Fatalf("identity patch center = %v, want %v", got, want)
	}
}

func TestApplyToMeshMovesVertices(t *testing.T) {
	m := Quad()
	corners := [4]Vec2{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	ApplyToQuad(m, corners)
	if !approxEqual(m.Vertices[2].Position, Vec2{2, 2}, 1e-3) {
		t.Fatalf("quad corner 2 = %v, want (2,2)", m.Vertices[2].Position)
	}
}
