package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/recallnet/recall-go/types"
)

// ErrSequenceStale means the network rejected a sequence number as already
// used or too far ahead. The caller must Reset the tracker and rebuild the
// intent with a fresh number; the rejected envelope is dead.
var ErrSequenceStale = errors.New("sequence number stale")

// ErrNotSynced is returned by Next before the first successful Sync
var ErrNotSynced = errors.New("sequence tracker not synced")

// SequenceReader is the slice of the network provider the tracker needs
type SequenceReader interface {
	// NonceAt reads the committed sequence number for the address
	NonceAt(ctx context.Context, addr types.Address) (uint64, error)
}

// SequenceTracker owns the monotonic transaction counter for one address.
// It is the only component allowed to hand out sequence numbers for that
// address; concurrent transaction builders must share one tracker instance.
type SequenceTracker struct {
	logger hclog.Logger

	addr types.Address

	mu     sync.Mutex
	next   uint64
	synced bool
}

func NewSequenceTracker(logger hclog.Logger, addr types.Address) *SequenceTracker {
	return &SequenceTracker{
		logger: logger.Named("sequence"),
		addr:   addr,
	}
}

func (s *SequenceTracker) Address() types.Address {
	return s.addr
}

// Sync reads the committed sequence from the network and caches it.
// Required once before the first Next.
func (s *SequenceTracker) Sync(ctx context.Context, reader SequenceReader) (uint64, error) {
	nonce, err := reader.NonceAt(ctx, s.addr)
	if err != nil {
		return 0, fmt.Errorf("sequence sync: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The counter never decreases: an unsynced gap of locally reserved
	// numbers beats rewinding below an already-consumed one
	if s.synced && nonce < s.next {
		s.logger.Debug("sync below local counter, keeping local",
			"network", nonce, "local", s.next)

		return s.next, nil
	}

	s.next = nonce
	s.synced = true

	s.logger.Debug("synced", "address", s.addr, "sequence", nonce)

	return nonce, nil
}

// Next reserves the next sequence number, incrementing the local counter
// optimistically before the transaction confirms
func (s *SequenceTracker) Next() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.synced {
		return 0, ErrNotSynced
	}

	n := s.next
	s.next++

	return n, nil
}

// Unwind returns a reserved number that was never submitted. Only the most
// recently reserved number can be returned; anything else is ignored.
func (s *SequenceTracker) Unwind(n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.synced && s.next == n+1 {
		s.next = n
	}
}

// Current returns the next number that would be reserved, without
// reserving it
func (s *SequenceTracker) Current() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.next, s.synced
}

// Reset forces a resync from network state. Required after any failed
// transaction whose failure is sequence related.
func (s *SequenceTracker) Reset(ctx context.Context, reader SequenceReader) (uint64, error) {
	nonce, err := reader.NonceAt(ctx, s.addr)
	if err != nil {
		return 0, fmt.Errorf("sequence reset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.next = nonce
	s.synced = true

	s.logger.Debug("reset", "address", s.addr, "sequence", nonce)

	return nonce, nil
}

// IsSequenceStale classifies an error (typically an RPC rejection) as
// sequence related
func IsSequenceStale(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrSequenceStale) {
		return true
	}

	msg := strings.ToLower(err.Error())

	for _, marker := range []string{
		"nonce too low",
		"nonce too high",
		"nonce is too low",
		"invalid nonce",
		"already known",
		"replacement transaction",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
