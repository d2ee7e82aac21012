package account

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/recallnet/recall-go/crypto"
	"github.com/recallnet/recall-go/types"
)

// Sender binds a signing key to the sequence tracker for its address. The
// submit mutex serializes mutating submissions: at most one reserved
// sequence number is in flight per sender at a time. Reads never take it.
type Sender struct {
	key     *crypto.Key
	tracker *SequenceTracker

	submitMu sync.Mutex
}

func NewSender(logger hclog.Logger, key *crypto.Key) *Sender {
	return &Sender{
		key:     key,
		tracker: NewSequenceTracker(logger, key.Address()),
	}
}

func (s *Sender) Address() types.Address {
	return s.key.Address()
}

func (s *Sender) Tracker() *SequenceTracker {
	return s.tracker
}

// Sync refreshes the underlying tracker
func (s *Sender) Sync(ctx context.Context, reader SequenceReader) (uint64, error) {
	return s.tracker.Sync(ctx, reader)
}

// SignTx signs the envelope for the given deployment
func (s *Sender) SignTx(tx *types.Transaction, chainID uint64) (*types.Transaction, error) {
	return s.key.SignTx(tx, chainID)
}

// Acquire takes the submit lock. The transaction pipeline holds it from
// sequence reservation until the submission reaches a terminal state or is
// abandoned, which keeps one unconfirmed transaction in flight per account.
func (s *Sender) Acquire() {
	s.submitMu.Lock()
}

func (s *Sender) Release() {
	s.submitMu.Unlock()
}
