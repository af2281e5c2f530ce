package game

// Source picks random zones. *rand.Rand satisfies it.
type Source interface {
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

// Sequence is the growing list of zones the player has to repeat. It is only
// ever appended to.
type Sequence struct {
	registry *Registry
	source   Source
	ids      []Identity
}

func NewSequence(registry *Registry, source Source) *Sequence {
	return &Sequence{
		registry: registry,
		source:   source,
	}
}

// Seed appends n random zones.
func (s *Sequence) Seed(n int) {
	for i := 0; i < n; i++ {
		s.Grow()
	}
}

// Grow appends one random zone.
func (s *Sequence) Grow() {
	id := Identity(s.source.Intn(s.registry.Len()))
	s.ids = append(s.ids, id)
}

func (s *Sequence) Len() int {
	return len(s.ids)
}

func (s *Sequence) At(i int) Identity {
	return s.ids[i]
}

// Identities returns a copy of the sequence.
func (s *Sequence) Identities() []Identity {
	ids := make([]Identity, len(s.ids))
	copy(ids, s.ids)

	return ids
}
