// Package mesh implements mapping geometry: triangulated meshes and the
// 4x4 Bezier patch warp applied to them.
package mesh

import (
	"fmt"
	"math"
)

// Vec2 is a 2D point or vector in normalized canvas space [0,1]^2 unless
// stated otherwise.
type Vec2 struct {
	X, Y float32
}

// Vertex is one mesh vertex: a canvas-space position plus its texture
// coordinate.
type Vertex struct {
	Position Vec2
	UV       Vec2
}

// Kind identifies the shape a Mesh was built from. It does not change how
// the mesh is drawn; MeshRenderer only ever sees vertices and indices.
type Kind int

const (
	KindQuad Kind = iota
	KindTriangle
	KindEllipse
	KindGrid
)

// Mesh is an ordered set of vertices and a CCW triangle index list.
type Mesh struct {
	Kind     Kind
	Vertices []Vertex
	Indices  []uint16
}

// Validate checks the invariants from the data model: every index is
// in-range, and the index list is triangle-aligned. An empty index list
// passes.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("mesh: index %d at position %d out of range (have %d vertices)", idx, i, len(m.Vertices))
		}
	}
	return nil
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles described by the index list.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Quad builds the canonical full-canvas quad: 4 vertices, 2 CCW triangles.
func Quad() *Mesh {
	return QuadWithBounds(0, 0, 1, 1)
}

// QuadWithBounds builds a quad mapped to the given canvas-space rectangle,
// with uv spanning [0,1]^2 across it.
func QuadWithBounds(x, y, w, h float32) *Mesh {
	return &Mesh{
		Kind: KindQuad,
		Vertices: []Vertex{
			{Position: Vec2{x, y}, UV: Vec2{0, 0}},
			{Position: Vec2{x + w, y}, UV: Vec2{1, 0}},
			{Position: Vec2{x + w, y + h}, UV: Vec2{1, 1}},
			{Position: Vec2{x, y + h}, UV: Vec2{0, 1}},
		},
		// CCW winding for the front face: 0,1,2 then 0,2,3.
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

// Triangle builds a single CCW triangle covering half the unit square.
func Triangle() *Mesh {
	return &Mesh{
		Kind: KindTriangle,
		Vertices: []Vertex{
			{Position: Vec2{0, 0}, UV: Vec2{0, 0}},
			{Position: Vec2{1, 0}, UV: Vec2{1, 0}},
			{Position: Vec2{0.5, 1}, UV: Vec2{0.5, 1}},
		},
		Indices: []uint16{0, 1, 2},
	}
}

// Ellipse builds a fan of `segments` triangles around a center vertex.
func Ellipse(center Vec2, radiusX, radiusY float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	m := &Mesh{Kind: KindEllipse}
	m.Vertices = append(m.Vertices, Vertex{Position: center, UV: Vec2{0.5, 0.5}})
	for i := 0; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		cosT, sinT := float32(math.Cos(theta)), float32(math.Sin(theta))
		pos := Vec2{center.X + radiusX*cosT, center.Y + radiusY*sinT}
		uv := Vec2{0.5 + 0.5*cosT, 0.5 + 0.5*sinT}
		m.Vertices = append(m.Vertices, Vertex{Position: pos, UV: uv})
	}
	for i := 1; i <= segments; i++ {
		m.Indices = append(m.Indices, 0, uint16(i), uint16(i+1))
	}
	return m
}

// Grid builds an R x C grid of cells, each split into 2 CCW triangles,
// covering the unit square.
func Grid(rows, cols int) *Mesh {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	m := &Mesh{Kind: KindGrid}
	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			u := float32(c) / float32(cols)
			v := float32(r) / float32(rows)
			m.Vertices = append(m.Vertices, Vertex{Position: Vec2{u, v}, UV: Vec2{u, v}})
		}
	}
	stride := cols + 1
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			topLeft := uint16(r*stride + c)
			topRight := topLeft + 1
			botLeft := uint16((r + 1) * stride + c)
			botRight := botLeft + 1
			m.Indices = append(m.Indices,
				topLeft, topRight, botRight,
				topLeft, botRight, botLeft,
			)
		}
	}
	return m
}

// Bounds returns the axis-aligned bounding box (min, max) of the mesh's
// vertex positions. ok is false for an empty mesh.
func (m *Mesh) Bounds() (min, max Vec2, ok bool) {
	if len(m.Vertices) == 0 {
		return Vec2{}, Vec2{}, false
	}
	min = m.Vertices[0].Position
	max = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		if v.Position.X < min.X {
			min.X = v.Position.X
		}
		if v.Position.Y < min.Y {
			min.Y = v.Position.Y
		}
		if v.Position.X > max.X {
			max.X = v.Position.X
		}
		if v.Position.Y > max.Y {
			max.Y = v.Position.Y
		}
	}
	return min, max, true
}

// IntersectsRegion reports whether the mesh's bounding box intersects the
// given canvas-space rectangle. Used by the orchestrator's per-output
// mapping filter (bounding-box test, spec Open Question (a)).
func (m *Mesh) IntersectsRegion(x, y, w, h float32) bool {
	min, max, ok := m.Bounds()
	if !ok {
		return false
	}
	return min.X <= x+w && max.X >= x && min.Y <= y+h && max.Y >= y
}
