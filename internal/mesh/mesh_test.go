package mesh

import "testing"

func TestQuadWinding(t *testing.T) {
	m := Quad()
	if err := m.Validate(); err != nil {
		t.Fatalf("quad should validate: %v", err)
	}
	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Fatalf("quad should have 4 vertices and 2 triangles, got %d/%d", m.VertexCount(), m.TriangleCount())
	}
}

func TestTriangleShape(t *testing.T) {
	m := Triangle()
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("triangle should have 3 vertices and 1 triangle, got %d/%d", m.VertexCount(), m.TriangleCount())
	}
}

func TestEllipseSegments(t *testing.T) {
	m := Ellipse(Vec2{0.5, 0.5}, 0.5, 0.5, 16)
	if m.TriangleCount() != 16 {
		t.Fatalf("expected 16 fan triangles, got %d", m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("ellipse should validate: %v", err)
	}
}

func TestGridCellCount(t *testing.T) {
	m := Grid(3, 4)
	if m.TriangleCount() != 2*3*4 {
		t.Fatalf("expected %d triangles, got %d", 2*3*4, m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("grid should validate: %v", err)
	}
}

func TestValidateRejectsOutOfRangeIndex(t *testing.T) {
	m := Quad()
	m.Indices[0] = 99
	if err := m.Validate(); err == nil {
		t.Fatal("expected validation error for out-of-range index")
	}
}

func TestIntersectsRegion(t *testing.T) {
	m := QuadWithBounds(0.4, 0.4, 0.2, 0.2) // covers [0.4,0.6]^2
	if !m.IntersectsRegion(0, 0, 0.5, 0.5) {
		t.Fatal("expected intersection with overlapping region")
	}
	if m.IntersectsRegion(0.7, 0.7, 0.2, 0.2) {
		t.Fatal("expected no intersection with disjoint region")
	}
}
