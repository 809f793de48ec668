package core

// State is a value that runs its effects when it changes.
type State[T comparable] struct {
	V       T
	effects []func()
}

func NewState[T comparable](value T) *State[T] {
	return &State[T]{V: value}
}

// Update sets the value. Effects only run if it changed.
func (s *State[T]) Update(value T) bool {
	if s.V == value {
		return false
	}
	s.V = value
	for _, fn := range s.effects {
		fn()
	}
	return true
}

func (s *State[T]) AddEffect(fn func()) {
	s.effects = append(s.effects, fn)
}
