package client

import (
	"errors"
	"sync"

	"hashbridge/internal/services"
)

// ErrToggleInFlight is returned when a toggle is attempted while a previous
// one has not resolved yet. The UI contract allows one outstanding toggle
// per post at a time.
var ErrToggleInFlight = errors.New("like toggle already in flight")

// Phase tracks where the displayed state came from.
type Phase int

const (
	// PhaseIdle: initial state, nothing displayed optimistically yet.
	PhaseIdle Phase = iota
	// PhaseOptimistic: the displayed state is the client's guess while the
	// request is in flight.
	PhaseOptimistic
	// PhaseConfirmed: the displayed state is the server's answer.
	PhaseConfirmed
	// PhaseReverted: the request failed and the pre-toggle state was
	// restored exactly.
	PhaseReverted
)

// LikeButton holds the displayed like state for one post. Toggle flips the
// display before the network call resolves; the server is authoritative on
// success and the snapshot is authoritative on failure.
type LikeButton struct {
	mu       sync.Mutex
	inFlight bool
	phase    Phase
	liked    bool
	count    int64
}

func NewLikeButton(liked bool, count int64) *LikeButton {
	return &LikeButton{liked: liked, count: count}
}

// State returns the currently displayed liked flag and count.
func (b *LikeButton) State() (bool, int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.liked, b.count
}

func (b *LikeButton) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

// Toggle applies the optimistic flip, runs send, and reconciles. send is
// invoked outside the lock so readers keep seeing the optimistic state
// while the request runs. A second Toggle during that window fails with
// ErrToggleInFlight without touching the display.
func (b *LikeButton) Toggle(send func() (*services.LikeResult, error)) error {
	b.mu.Lock()
	if b.inFlight {
		b.mu.Unlock()
		return ErrToggleInFlight
	}
	b.inFlight = true
	prevLiked, prevCount := b.liked, b.count
	if b.liked {
		b.liked = false
		b.count--
	} else {
		b.liked = true
		b.count++
	}
	b.phase = PhaseOptimistic
	b.mu.Unlock()

	result, err := send()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight = false
	if err != nil {
		// Revert, not recompute: the exact pre-toggle values come back.
		b.liked, b.count = prevLiked, prevCount
		b.phase = PhaseReverted
		return err
	}
	b.liked, b.count = result.Liked, result.LikeCount
	b.phase = PhaseConfirmed
	return nil
}
