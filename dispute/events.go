// events.go is the notification side-channel: stakeholders watching
// dispute outcomes subscribe here. Delivery is best-effort and never
// affects arbitration results.
package dispute

import (
	"github.com/DogeDapp/dogethereum-contracts/core/types"
	"github.com/DogeDapp/dogethereum-contracts/log"
)

// ClaimSubmittedEvent is emitted when a claimant posts a new claim.
type ClaimSubmittedEvent struct {
	ClaimID  uint64
	Claimant types.Address
	Output   []byte
}

// SessionDecidedEvent is emitted when a bisection game resolves.
type SessionDecidedEvent struct {
	ClaimID      uint64
	DisputedStep uint64
	Winner       Winner
}

// ClaimVerifiedEvent is emitted when a claim survives its challenge.
type ClaimVerifiedEvent struct {
	ClaimID  uint64
	Claimant types.Address
}

// ClaimFailedEvent is emitted when a claim loses its challenge or is
// rejected at admission.
type ClaimFailedEvent struct {
	ClaimID    uint64
	Claimant   types.Address
	Challenger types.Address
}

// Notifier receives dispute lifecycle events.
type Notifier interface {
	ClaimSubmitted(e ClaimSubmittedEvent)
	SessionDecided(e SessionDecidedEvent)
	ClaimVerified(e ClaimVerifiedEvent)
	ClaimFailed(e ClaimFailedEvent)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) ClaimSubmitted(ClaimSubmittedEvent) {}
func (NopNotifier) SessionDecided(SessionDecidedEvent) {}
func (NopNotifier) ClaimVerified(ClaimVerifiedEvent)   {}
func (NopNotifier) ClaimFailed(ClaimFailedEvent)       {}

// LogNotifier writes each event to a structured logger.
type LogNotifier struct {
	log *log.Logger
}

// NewLogNotifier creates a notifier logging under the "dispute" module.
func NewLogNotifier(l *log.Logger) *LogNotifier {
	if l == nil {
		l = log.Default()
	}
	return &LogNotifier{log: l.Module("dispute")}
}

func (n *LogNotifier) ClaimSubmitted(e ClaimSubmittedEvent) {
	n.log.Info("claim submitted", "claim", e.ClaimID, "claimant", e.Claimant.Hex())
}

func (n *LogNotifier) SessionDecided(e SessionDecidedEvent) {
	n.log.Info("session decided", "claim", e.ClaimID, "step", e.DisputedStep, "winner", e.Winner.String())
}

func (n *LogNotifier) ClaimVerified(e ClaimVerifiedEvent) {
	n.log.Info("claim verified", "claim", e.ClaimID, "claimant", e.Claimant.Hex())
}

func (n *LogNotifier) ClaimFailed(e ClaimFailedEvent) {
	n.log.Warn("claim failed", "claim", e.ClaimID, "claimant", e.Claimant.Hex(), "challenger", e.Challenger.Hex())
}

// FanoutNotifier dispatches every event to each target in order.
type FanoutNotifier struct {
	targets []Notifier
}

// NewFanoutNotifier creates a notifier forwarding to all targets.
func NewFanoutNotifier(targets ...Notifier) *FanoutNotifier {
	return &FanoutNotifier{targets: targets}
}

func (n *FanoutNotifier) ClaimSubmitted(e ClaimSubmittedEvent) {
	for _, t := range n.targets {
		t.ClaimSubmitted(e)
	}
}

func (n *FanoutNotifier) SessionDecided(e SessionDecidedEvent) {
	for _, t := range n.targets {
		t.SessionDecided(e)
	}
}

func (n *FanoutNotifier) ClaimVerified(e ClaimVerifiedEvent) {
	for _, t := range n.targets {
		t.ClaimVerified(e)
	}
}

func (n *FanoutNotifier) ClaimFailed(e ClaimFailedEvent) {
	for _, t := range n.targets {
		t.ClaimFailed(e)
	}
}
