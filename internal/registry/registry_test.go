package registry

import (
	"testing"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/sim"
)

type constPolicy struct {
	id   string
	seed int64
}

func (p constPolicy) ID() string                     { return p.id }
func (p constPolicy) Describe() string               { return "always shoots the same arrow" }
func (p constPolicy) Act(sim.Observation) sim.Action { return sim.Action{RawAngle: 0.1, RawPower: 0.2} }

func TestRegisterCreateList(t *testing.T) {
	Register("test-const", func(_ config.Archery, seed int64) Policy {
		return constPolicy{id: "test-const", seed: seed}
	})

	if !Exists("test-const") {
		t.Fatal("registered policy should exist")
	}

	p, err := Create("test-const", config.Default(), 77)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if p.(constPolicy).seed != 77 {
		t.Errorf("factory should receive the seed, got %d", p.(constPolicy).seed)
	}

	found := false
	for _, info := range List() {
		if info.ID == "test-const" {
			found = true
			if info.Description != "always shoots the same arrow" {
				t.Errorf("description = %q", info.Description)
			}
		}
	}
	if !found {
		t.Error("List() should include the registered policy")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-policy", config.Default(), 0); err == nil {
		t.Error("Create() should fail for unknown IDs")
	}
	if Exists("no-such-policy") {
		t.Error("Exists() should be false for unknown IDs")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	f := func(config.Archery, int64) Policy { return constPolicy{id: "test-dup"} }
	Register("test-dup", f)

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("test-dup", f)
}

func TestListSorted(t *testing.T) {
	Register("test-b", func(config.Archery, int64) Policy { return constPolicy{id: "test-b"} })
	Register("test-a", func(config.Archery, int64) Policy { return constPolicy{id: "test-a"} })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}
