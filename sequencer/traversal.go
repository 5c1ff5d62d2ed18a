package sequencer

import (
	"math/rand/v2"
	"sync"
)

// Strategy produces the column order for one run: a permutation of [0, n)
type Strategy func(n int) []int

// Sequential visits columns left to right
func Sequential(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// Shuffled returns a strategy drawing a fresh uniform permutation per run.
// A nil source uses the global generator.
func Shuffled(src rand.Source) Strategy {
	if src == nil {
		return rand.Perm
	}
	var mu sync.Mutex
	r := rand.New(src)
	return func(n int) []int {
		mu.Lock()
		defer mu.Unlock()
		return r.Perm(n)
	}
}

// Mode names a traversal for display and key bindings
type Mode int

const (
	ModeSequential Mode = iota
	ModeShuffled
)

func (m Mode) String() string {
	switch m {
	case ModeSequential:
		return "seq"
	case ModeShuffled:
		return "shuffle"
	}
	return "?"
}
