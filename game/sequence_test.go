package game

import (
	"math/rand"
	"testing"

	"github.com/the-lightning-land/simond/machine"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	m := machine.NewMockMachine(machine.DefaultZones)

	registry, err := NewRegistry(m.Devices())
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	return registry
}

// TestSeedLength yields exactly n valid zones on an empty sequence
func TestSeedLength(t *testing.T) {
	registry := newTestRegistry(t)

	for seed := int64(1); seed <= 50; seed++ {
		sequence := NewSequence(registry, rand.New(rand.NewSource(seed)))
		sequence.Seed(4)

		if sequence.Len() != 4 {
			t.Fatalf("Seed %d: expected 4 zones, got %d", seed, sequence.Len())
		}

		for _, id := range sequence.Identities() {
			if !registry.Valid(id) {
				t.Errorf("Seed %d: invalid zone %v", seed, id)
			}
		}
	}
}

// TestGrowAppends adds one zone and keeps the others in place
func TestGrowAppends(t *testing.T) {
	registry := newTestRegistry(t)
	sequence := NewSequence(registry, &fixedSource{values: []int{1, 2, 3, 0}})

	sequence.Seed(3)
	before := sequence.Identities()

	sequence.Grow()

	if sequence.Len() != 4 {
		t.Fatalf("Expected 4 zones, got %d", sequence.Len())
	}
	for i, id := range before {
		if sequence.At(i) != id {
			t.Errorf("Zone %d changed from %v to %v", i, id, sequence.At(i))
		}
	}
	if sequence.At(3) != green {
		t.Errorf("Expected appended %v, got %v", green, sequence.At(3))
	}
}

// TestGrowCoversRegistry draws every zone eventually
func TestGrowCoversRegistry(t *testing.T) {
	registry := newTestRegistry(t)
	sequence := NewSequence(registry, rand.New(rand.NewSource(7)))

	seen := make(map[Identity]int)
	for i := 0; i < 1000; i++ {
		sequence.Grow()
		seen[sequence.At(i)]++
	}

	for id := Identity(0); int(id) < registry.Len(); id++ {
		if seen[id] == 0 {
			t.Errorf("Zone %v never drawn", id)
		}
	}
}

// TestIdentitiesIsCopy protects the sequence from callers
func TestIdentitiesIsCopy(t *testing.T) {
	registry := newTestRegistry(t)
	sequence := NewSequence(registry, &fixedSource{values: []int{2}})
	sequence.Seed(2)

	ids := sequence.Identities()
	ids[0] = red

	if sequence.At(0) != blue {
		t.Errorf("Expected %v, got %v", blue, sequence.At(0))
	}
}
