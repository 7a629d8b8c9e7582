package effect

import (
	"bytes"
	"testing"
)

func TestChainAddMoveRemoveEnabledOrder(t *testing.T) {
	c := NewChain()
	first := c.Add(KindBlur)
	second := c.Add(KindVignette)

	if !c.MoveUp(second) {
		t.Fatal("expected move_up(second) to succeed")
	}
	all := c.All()
	if all[0].ID != second || all[1].ID != first {
		t.Fatalf("expected order [second,first] after move_up, got [%v,%v]", all[0].ID, all[1].ID)
	}

	if !c.Remove(first) {
		t.Fatal("expected remove(first) to succeed")
	}
	all = c.All()
	if len(all) != 1 || all[0].ID != second {
		t.Fatalf("expected only second effect to remain, got %v", all)
	}

	enabled := c.Enabled()
	if len(enabled) != 1 || enabled[0].ID != second {
		t.Fatalf("expected enabled_effects == [second], got %v", enabled)
	}
}

func TestChainJSONRoundTrip(t *testing.T) {
	c := NewChain()
	id := c.Add(KindColorAdjust)
	e, _ := c.GetMut(id)
	e.Parameters.Set("brightness", 0.25)

	data, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored Chain
	if err := restored.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	data2, err := restored.MarshalJSON()
	if err != nil {
		t.Fatalf("re-marshal failed: %v", err)
	}
	if !bytes.Equal(data, data2) {
		t.Fatalf("round-trip mismatch:\n%s\nvs\n%s", data, data2)
	}
}

func TestDefaultParamsResolveForMissingName(t *testing.T) {
	c := NewChain()
	id := c.Add(KindBlur)
	e, _ := c.GetMut(id)
	if v := e.Parameters.GetOrDefault("radius", -1); v != 5 {
		t.Fatalf("expected default blur radius 5, got %v", v)
	}
	if v := e.Parameters.GetOrDefault("nonexistent", 42); v != 42 {
		t.Fatalf("expected unknown param to resolve to supplied default, got %v", v)
	}
}

func TestPackUniformColorAdjust(t *testing.T) {
	c := NewChain()
	id := c.Add(KindColorAdjust)
	e, _ := c.GetMut(id)
	e.Parameters.Set("brightness", 0.1)
	e.Parameters.Set("contrast", 1.2)
	e.Parameters.Set("saturation", 0)

	u := e.PackUniform(1.5, 1920, 1080)
	if u.ParamA != 0.1 || u.ParamB != 1.2 || u.ParamCX != 0 {
		t.Fatalf("unexpected uniform packing: %+v", u)
	}
	if u.Time != 1.5 || u.ResolutionX != 1920 || u.ResolutionY != 1080 {
		t.Fatalf("unexpected uniform time/resolution: %+v", u)
	}
}
