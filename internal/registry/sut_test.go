package registry

import (
	"context"
	"testing"

	"github.com/justapithecus/graphbench/types"
)

type stubSut struct{ id string }

func (s *stubSut) ID() string { return s.id }
func (s *stubSut) Run(ctx context.Context, inputs any) (types.SutOutput, error) {
	return types.SutOutput{Valid: true, Metrics: map[string]float64{"ok": 1}}, nil
}

func stubSpec(id string) types.SutSpec {
	return types.SutSpec{ID: id, Name: id, Version: "1.0.0", Role: types.RolePrimary}
}

func TestSutRegistry_RegisterAndLookup(t *testing.T) {
	r := NewSutRegistry()
	factory := func(override map[string]any) (types.SutInstance, error) {
		return &stubSut{id: "a"}, nil
	}
	if err := r.Register(stubSpec("a"), factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec, err := r.Spec("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.ID != "a" {
		t.Errorf("expected id %q, got %q", "a", spec.ID)
	}

	instance, err := r.New("a", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instance.ID() != "a" {
		t.Errorf("expected instance id %q, got %q", "a", instance.ID())
	}
}

func TestSutRegistry_RejectsDuplicate(t *testing.T) {
	r := NewSutRegistry()
	factory := func(override map[string]any) (types.SutInstance, error) { return &stubSut{}, nil }
	if err := r.Register(stubSpec("a"), factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(stubSpec("a"), factory); err == nil {
		t.Error("expected error registering duplicate sut id")
	}
}

func TestSutRegistry_RejectsInvalidSpec(t *testing.T) {
	r := NewSutRegistry()
	factory := func(override map[string]any) (types.SutInstance, error) { return &stubSut{}, nil }
	if err := r.Register(types.SutSpec{}, factory); err == nil {
		t.Error("expected error registering spec with empty id")
	}
}

func TestSutRegistry_LookupMissing(t *testing.T) {
	r := NewSutRegistry()
	if _, err := r.Spec("missing"); err == nil {
		t.Error("expected error for missing sut spec")
	}
	if _, err := r.New("missing", nil); err == nil {
		t.Error("expected error constructing missing sut")
	}
}

func TestSutRegistry_IDsSorted(t *testing.T) {
	r := NewSutRegistry()
	factory := func(override map[string]any) (types.SutInstance, error) { return &stubSut{}, nil }
	_ = r.Register(stubSpec("zeta"), factory)
	_ = r.Register(stubSpec("alpha"), factory)
	ids := r.IDs()
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "zeta" {
		t.Errorf("expected sorted [alpha zeta], got %v", ids)
	}
}
