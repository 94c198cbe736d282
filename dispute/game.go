// Package dispute implements the outer claim/challenge game: claims about
// scrypt runs, deposits and bonds, and the interactive bisection protocol
// that narrows a disagreement to a single step and resolves it with
// exactly one call into the verification engine.
package dispute

import (
	"errors"

	"github.com/DogeDapp/dogethereum-contracts/core/types"
	"github.com/DogeDapp/dogethereum-contracts/crypto"
	"github.com/DogeDapp/dogethereum-contracts/scrypt"
	"github.com/DogeDapp/dogethereum-contracts/verify"
)

// Bisection errors.
var (
	ErrSessionNotAdmitted = errors.New("dispute: session not eligible for step arbitration")
	ErrGameConverged      = errors.New("dispute: bisection has converged to a single step")
	ErrGameNotConverged   = errors.New("dispute: bisection has not converged yet")
	ErrGameResolved       = errors.New("dispute: game already resolved")
	ErrBoundaryMismatch   = errors.New("dispute: supplied state does not match the agreed boundary hash")
	ErrClaimantMismatch   = errors.New("dispute: supplied state does not match the claimant's boundary hash")
)

// Winner identifies the party a resolved dispute favors.
type Winner uint8

const (
	WinnerNone Winner = iota
	WinnerClaimant
	WinnerChallenger
)

// String implements fmt.Stringer.
func (w Winner) String() string {
	switch w {
	case WinnerClaimant:
		return "claimant"
	case WinnerChallenger:
		return "challenger"
	default:
		return "none"
	}
}

// BisectionGame narrows a claimant/challenger disagreement over the fixed
// step sequence to one disputed transition. Parties exchange hashes of the
// serialized state at step boundaries: boundary s is the state after
// transition s (the raw 32-byte output for the last boundary). Agreement
// at the midpoint moves the lower bound up, disagreement moves the upper
// bound down, until exactly one transition remains.
type BisectionGame struct {
	session *verify.Session

	lowStep  uint64 // highest boundary the parties agree on
	highStep uint64 // lowest boundary the parties disagree on

	claimantHashes   map[uint64]types.Hash
	challengerHashes map[uint64]types.Hash

	converged bool
	winner    Winner
}

// NewBisectionGame opens a bisection game over an admitted session. The
// claimant's final boundary hash is pinned from the session's claimed
// output; the parties disagree there by construction.
func NewBisectionGame(s *verify.Session) (*BisectionGame, error) {
	if !verify.IsInitiallyValid(s) {
		return nil, ErrSessionNotAdmitted
	}
	g := &BisectionGame{
		session:          s,
		lowStep:          s.LowStep,
		highStep:         s.HighStep,
		claimantHashes:   make(map[uint64]types.Hash),
		challengerHashes: make(map[uint64]types.Hash),
	}
	g.claimantHashes[s.HighStep] = crypto.Keccak256Hash(s.Output)
	return g, nil
}

// Session returns the session this game arbitrates.
func (g *BisectionGame) Session() *verify.Session { return g.session }

// Bounds returns the current (lowStep, highStep) boundary range.
func (g *BisectionGame) Bounds() (uint64, uint64) { return g.lowStep, g.highStep }

// IsConverged reports whether the dispute has narrowed to one transition.
func (g *BisectionGame) IsConverged() bool { return g.converged }

// Winner returns the resolved winner, WinnerNone until Resolve succeeds.
func (g *BisectionGame) Winner() Winner { return g.winner }

// DisputedStep returns the transition index the game converged on: the
// step from the agreed boundary to the first disagreed one. Only
// meaningful once IsConverged returns true.
func (g *BisectionGame) DisputedStep() uint64 { return g.highStep }

// PlayRound records both parties' claimed state hashes at the midpoint of
// the current range and narrows the range to the half containing the
// disagreement. Returns the updated bounds.
func (g *BisectionGame) PlayRound(claimantHash, challengerHash types.Hash) (uint64, uint64, error) {
	if g.converged {
		return g.lowStep, g.highStep, ErrGameConverged
	}

	mid := (g.lowStep + g.highStep) / 2
	g.claimantHashes[mid] = claimantHash
	g.challengerHashes[mid] = challengerHash

	if claimantHash == challengerHash {
		g.lowStep = mid
	} else {
		g.highStep = mid
	}
	if g.highStep <= g.lowStep+1 {
		g.converged = true
	}
	return g.lowStep, g.highStep, nil
}

// Resolve settles a converged game with one step verification. The
// claimant supplies the before-state, after-state, and memory proof for
// the disputed transition; both must match the hashes recorded during
// bisection where the game has them. A valid transition means the
// claimant's chain of intermediate states holds at the disputed step and
// the challenge fails; anything else loses the claim.
func (g *BisectionGame) Resolve(preState, postState, proof []byte) (Winner, error) {
	if !g.converged {
		return WinnerNone, ErrGameNotConverged
	}
	if g.winner != WinnerNone {
		return g.winner, ErrGameResolved
	}

	// The pre-state sits on the agreed boundary; both parties' recorded
	// hashes must match it. Boundary 0 is never queried by a round, so it
	// is anchored by recomputing the genesis state from the session input.
	if g.lowStep == 0 {
		genesis := scrypt.InputToState(g.session.Input).Encode()
		if crypto.Keccak256Hash(preState) != crypto.Keccak256Hash(genesis) {
			return WinnerNone, ErrBoundaryMismatch
		}
	}
	if want, ok := g.claimantHashes[g.lowStep]; ok && crypto.Keccak256Hash(preState) != want {
		return WinnerNone, ErrBoundaryMismatch
	}
	if want, ok := g.challengerHashes[g.lowStep]; ok && crypto.Keccak256Hash(preState) != want {
		return WinnerNone, ErrBoundaryMismatch
	}
	// The post-state is the claimant's own disputed boundary claim.
	if want, ok := g.claimantHashes[g.highStep]; ok && crypto.Keccak256Hash(postState) != want {
		return WinnerNone, ErrClaimantMismatch
	}

	if verify.VerifyStep(g.DisputedStep(), preState, postState, proof) {
		g.winner = WinnerClaimant
	} else {
		g.winner = WinnerChallenger
	}
	return g.winner, nil
}
