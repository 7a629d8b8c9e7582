package mapping

import "testing"

func TestLayerManagerAddDefaults(t *testing.T) {
	lm := NewLayerManager()
	id := lm.Add("layer1")
	l, ok := lm.Get(id)
	if !ok {
		t.Fatal("expected layer to exist after add")
	}
	if l.Opacity != 1 {
		t.Fatalf("expected default opacity 1, got %v", l.Opacity)
	}
	if l.BlendMode != BlendNormal {
		t.Fatalf("expected default blend mode BlendNormal, got %v", l.BlendMode)
	}
	if l.Transform != IdentityTransform() {
		t.Fatalf("expected identity transform, got %+v", l.Transform)
	}
	if l.ResizeMode != ResizeFit {
		t.Fatalf("expected default resize mode ResizeFit, got %v", l.ResizeMode)
	}
}

func TestLayerManagerVisibleHonorsSoloAndVisibility(t *testing.T) {
	lm := NewLayerManager()
	idA := lm.Add("a")
	idB := lm.Add("b")
	b, _ := lm.Get(idB)
	b.Solo = true

	visible := lm.Visible()
	if len(visible) != 1 || visible[0].ID != idB {
		t.Fatalf("expected only soloed layer b visible, got %v (idA=%v)", visible, idA)
	}

	b.Solo = false
	a, _ := lm.Get(idA)
	a.Visible = false
	visible = lm.Visible()
	if len(visible) != 1 || visible[0].ID != idB {
		t.Fatalf("expected only visible layer b, got %v", visible)
	}
}

func TestLayerManagerVisiblePreservesInsertionOrder(t *testing.T) {
	lm := NewLayerManager()
	idA := lm.Add("a")
	idB := lm.Add("b")
	idC := lm.Add("c")

	visible := lm.Visible()
	if len(visible) != 3 || visible[0].ID != idA || visible[1].ID != idB || visible[2].ID != idC {
		t.Fatalf("expected insertion order [a,b,c], got %v", visible)
	}
}

func TestLayerMappingIDsGrouping(t *testing.T) {
	lm := NewLayerManager()
	id := lm.Add("group")
	l, _ := lm.Get(id)
	l.MappingIDs = append(l.MappingIDs, ID(1), ID(2))

	again, _ := lm.Get(id)
	if len(again.MappingIDs) != 2 || again.MappingIDs[0] != 1 || again.MappingIDs[1] != 2 {
		t.Fatalf("expected MappingIDs [1,2], got %v", again.MappingIDs)
	}
}

func TestLayerManagerVisibleExcludesBypassed(t *testing.T) {
	lm := NewLayerManager()
	id := lm.Add("layer1")
	l, _ := lm.Get(id)
	l.Bypass = true
	if got := lm.Visible(); len(got) != 0 {
		t.Fatalf("expected bypassed layer excluded, got %d visible", len(got))
	}
}

func TestLayerManagerRemoveDropsFromOrder(t *testing.T) {
	lm := NewLayerManager()
	idA := lm.Add("a")
	idB := lm.Add("b")
	lm.Remove(idA)

	visible := lm.Visible()
	if len(visible) != 1 || visible[0].ID != idB {
		t.Fatalf("expected only layer b after removing a, got %v", visible)
	}
}
