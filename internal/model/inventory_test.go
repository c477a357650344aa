package model

import (
	"testing"
)

func TestNewContainerPreset(t *testing.T) {
	cp := NewContainerPreset("Van", 250, 150, 130, 800)
	if cp.Name != "Van" {
		t.Errorf("expected name 'Van', got %s", cp.Name)
	}
	if len(cp.ID) != 8 {
		t.Errorf("expected 8-char ID, got %q", cp.ID)
	}

	c := cp.ToContainer()
	if c.Length != 250 || c.Width != 150 || c.Height != 130 || c.Capacity != 800 {
		t.Errorf("container does not carry preset dimensions: %+v", c)
	}
	if c.ID == cp.ID {
		t.Error("container should get its own ID")
	}
}

func TestDefaultFleet(t *testing.T) {
	f := DefaultFleet()
	if len(f.Presets) == 0 {
		t.Fatal("default fleet should not be empty")
	}
	for _, p := range f.Presets {
		if p.Length <= 0 || p.Width <= 0 || p.Height <= 0 || p.Capacity <= 0 {
			t.Errorf("preset %s has non-positive dimensions", p.Name)
		}
	}
}

func TestFleetLookup(t *testing.T) {
	f := DefaultFleet()
	first := f.Presets[0]

	if got := f.FindByID(first.ID); got == nil || got.Name != first.Name {
		t.Errorf("FindByID failed for %s", first.ID)
	}
	if f.FindByID("missing") != nil {
		t.Error("expected nil for unknown ID")
	}
	if got := f.FindByName("Large Van"); got == nil {
		t.Error("expected to find Large Van")
	}
	if names := f.Names(); len(names) != len(f.Presets) || names[0] != first.Name {
		t.Errorf("unexpected names %v", names)
	}
}

func TestFleetContainers(t *testing.T) {
	f := DefaultFleet()
	cs, unknown := f.Containers("Small Van", "Hovercraft", "Small Van")

	if len(cs) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(cs))
	}
	if cs[0].ID == cs[1].ID {
		t.Error("each container should have a distinct ID")
	}
	if len(unknown) != 1 || unknown[0] != "Hovercraft" {
		t.Errorf("expected Hovercraft unknown, got %v", unknown)
	}
}
