package mapping

import (
	"testing"

	"github.com/mrlongnight/mapmap/internal/mesh"
)

func TestManagerAddRemove(t *testing.T) {
	m := NewManager()
	id := m.Add("m1", 1, mesh.Quad())
	if _, ok := m.Get(id); !ok {
		t.Fatal("expected mapping to exist after add")
	}
	m.Remove(id)
	if _, ok := m.Get(id); ok {
		t.Fatal("expected mapping to be gone after remove")
	}
}

func TestManagerVisibleFiltersAndSorts(t *testing.T) {
	m := NewManager()
	idA := m.Add("a", 1, mesh.QuadWithBounds(0, 0, 0.5, 0.5))
	idB := m.Add("b", 1, mesh.QuadWithBounds(0, 0, 0.5, 0.5))
	ma, _ := m.Get(idA)
	ma.Depth = 2
	mb, _ := m.Get(idB)
	mb.Depth = 1

	idHidden := m.Add("hidden", 1, mesh.QuadWithBounds(0, 0, 0.5, 0.5))
	mh, _ := m.Get(idHidden)
	mh.Visible = false

	visible := m.Visible(0, 0, 1, 1)
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible mappings, got %d", len(visible))
	}
	if visible[0].ID != idB || visible[1].ID != idA {
		t.Fatalf("expected depth-sorted order [b,a], got [%v,%v]", visible[0].ID, visible[1].ID)
	}
}

func TestManagerVisibleHonorsSolo(t *testing.T) {
	m := NewManager()
	idA := m.Add("a", 1, mesh.QuadWithBounds(0, 0, 1, 1))
	idB := m.Add("b", 1, mesh.QuadWithBounds(0, 0, 1, 1))
	mb, _ := m.Get(idB)
	mb.Solo = true

	visible := m.Visible(0, 0, 1, 1)
	if len(visible) != 1 || visible[0].ID != idB {
		t.Fatalf("expected only soloed mapping b visible, got %v (idA=%v)", visible, idA)
	}
}

func TestManagerVisibleExcludesDisjointRegion(t *testing.T) {
	m := NewManager()
	m.Add("a", 1, mesh.QuadWithBounds(0.8, 0.8, 0.1, 0.1))
	visible := m.Visible(0, 0, 0.5, 0.5)
	if len(visible) != 0 {
		t.Fatalf("expected 0 visible mappings outside region, got %d", len(visible))
	}
}
