// claims.go implements the claim manager: deposits, claim lifecycle
// (Created -> AdmittedForStepArbitration -> Resolved), and bond payouts.
// Each claim asserts "scrypt(input) = output"; a challenge opens a
// bisection game whose resolution decides where both bonds go.
package dispute

import (
	"errors"
	"sync"

	"github.com/holiman/uint256"

	"github.com/DogeDapp/dogethereum-contracts/core/types"
	"github.com/DogeDapp/dogethereum-contracts/log"
	"github.com/DogeDapp/dogethereum-contracts/metrics"
	"github.com/DogeDapp/dogethereum-contracts/verify"
)

// Claim manager errors.
var (
	ErrClaimNotFound        = errors.New("dispute: claim not found")
	ErrClaimNotChallengable = errors.New("dispute: claim not open for challenge")
	ErrClaimSelfChallenge   = errors.New("dispute: claimant cannot challenge own claim")
	ErrClaimNotEligible     = errors.New("dispute: claim fails the admission check")
	ErrNoOpenSession        = errors.New("dispute: claim has no open session")
	ErrInsufficientDeposit  = errors.New("dispute: deposit too small for bond")
	ErrZeroAmount           = errors.New("dispute: amount must be non-zero")
)

// ClaimStatus tracks a claim through its lifecycle.
type ClaimStatus uint8

const (
	// ClaimCreated is an open claim awaiting its challenge window.
	ClaimCreated ClaimStatus = iota

	// ClaimAdmitted is a challenged claim admitted for step arbitration.
	ClaimAdmitted

	// ClaimResolvedValid is a claim that survived arbitration.
	ClaimResolvedValid

	// ClaimResolvedInvalid is a claim that lost arbitration.
	ClaimResolvedInvalid
)

// Claim asserts that the scrypt run over Input produces Output.
type Claim struct {
	ID         uint64
	Claimant   types.Address
	Challenger types.Address
	Input      []byte
	Output     []byte
	Bond       *uint256.Int // claimant's locked bond
	Status     ClaimStatus
}

// snapshot returns a defensive copy. The manager hands these out so no
// caller can mutate claim state outside its lock.
func (c *Claim) snapshot() *Claim {
	cp := *c
	cp.Input = append([]byte(nil), c.Input...)
	cp.Output = append([]byte(nil), c.Output...)
	cp.Bond = c.Bond.Clone()
	return &cp
}

// ClaimManager owns claims, deposits, and open bisection games. All
// methods are safe for concurrent use; each bisection game itself is
// driven by one dispute at a time per the protocol.
type ClaimManager struct {
	mu       sync.Mutex
	nextID   uint64
	minBond  *uint256.Int
	claims   map[uint64]*Claim
	games    map[uint64]*BisectionGame
	deposits map[types.Address]*uint256.Int

	notifier Notifier
	mc       *metrics.Collector
	log      *log.Logger
}

// NewClaimManager creates a manager requiring minBond from each party.
// notifier and mc may be nil.
func NewClaimManager(minBond *uint256.Int, notifier Notifier, mc *metrics.Collector) *ClaimManager {
	if minBond == nil {
		minBond = uint256.NewInt(0)
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if mc == nil {
		mc = metrics.NewCollector(0)
	}
	return &ClaimManager{
		nextID:   1,
		minBond:  minBond.Clone(),
		claims:   make(map[uint64]*Claim),
		games:    make(map[uint64]*BisectionGame),
		deposits: make(map[types.Address]*uint256.Int),
		notifier: notifier,
		mc:       mc,
		log:      log.Default().Module("dispute"),
	}
}

// Deposit credits amount to addr's withdrawable balance.
func (m *ClaimManager) Deposit(addr types.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credit(addr, amount)
	return nil
}

// Balance returns addr's withdrawable balance. Bonded funds are excluded
// until their claim resolves.
func (m *ClaimManager) Balance(addr types.Address) *uint256.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.deposits[addr]; ok {
		return b.Clone()
	}
	return uint256.NewInt(0)
}

// Withdraw debits amount from addr's balance.
func (m *ClaimManager) Withdraw(addr types.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.debit(addr, amount)
}

// SubmitClaim opens a claim, locking the claimant's bond.
func (m *ClaimManager) SubmitClaim(claimant types.Address, input, output []byte) (*Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.debit(claimant, m.minBond); err != nil {
		return nil, err
	}
	c := &Claim{
		ID:       m.nextID,
		Claimant: claimant,
		Input:    append([]byte(nil), input...),
		Output:   append([]byte(nil), output...),
		Bond:     m.minBond.Clone(),
		Status:   ClaimCreated,
	}
	m.nextID++
	m.claims[c.ID] = c

	m.mc.Inc("dispute.claims.submitted", 1, nil)
	m.notifier.ClaimSubmitted(ClaimSubmittedEvent{ClaimID: c.ID, Claimant: claimant, Output: c.Output})
	m.log.Info("claim submitted", "claim", c.ID, "claimant", claimant.Hex())
	return c.snapshot(), nil
}

// ChallengeClaim locks the challenger's bond, runs the admission check,
// and opens the bisection game. A claim failing admission resolves
// invalid immediately: its shape can never be arbitrated step by step.
func (m *ClaimManager) ChallengeClaim(challenger types.Address, claimID uint64) (*BisectionGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[claimID]
	if !ok {
		return nil, ErrClaimNotFound
	}
	if c.Status != ClaimCreated {
		return nil, ErrClaimNotChallengable
	}
	if challenger == c.Claimant {
		return nil, ErrClaimSelfChallenge
	}
	if err := m.debit(challenger, m.minBond); err != nil {
		return nil, err
	}

	session := &verify.Session{
		ID:         c.ID,
		Claimant:   c.Claimant,
		Challenger: challenger,
		Input:      c.Input,
		Output:     c.Output,
		LowStep:    0,
		HighStep:   verify.TotalSteps,
	}
	if !verify.IsInitiallyValid(session) {
		// Malformed claim shape: challenger wins both bonds outright.
		c.Challenger = challenger
		m.settle(c, WinnerChallenger, 0)
		return nil, ErrClaimNotEligible
	}

	g, err := NewBisectionGame(session)
	if err != nil {
		return nil, err
	}
	c.Challenger = challenger
	c.Status = ClaimAdmitted
	m.games[claimID] = g

	m.mc.Inc("dispute.claims.challenged", 1, nil)
	m.log.Info("claim challenged", "claim", c.ID, "challenger", challenger.Hex())
	return g, nil
}

// Game returns the open bisection game for a claim.
func (m *ClaimManager) Game(claimID uint64) (*BisectionGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[claimID]
	if !ok {
		return nil, ErrNoOpenSession
	}
	return g, nil
}

// ResolveSession settles a converged game: one step verification, bonds
// to the winner, claim marked resolved.
func (m *ClaimManager) ResolveSession(claimID uint64, preState, postState, proof []byte) (Winner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[claimID]
	if !ok {
		return WinnerNone, ErrClaimNotFound
	}
	g, ok := m.games[claimID]
	if !ok {
		return WinnerNone, ErrNoOpenSession
	}
	w, err := g.Resolve(preState, postState, proof)
	if err != nil {
		return WinnerNone, err
	}
	delete(m.games, claimID)
	m.settle(c, w, g.DisputedStep())
	return w, nil
}

// Claim returns a copy of a claim by ID. Mutating the result does not
// affect the manager's record.
func (m *ClaimManager) Claim(claimID uint64) (*Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.claims[claimID]
	if !ok {
		return nil, ErrClaimNotFound
	}
	return c.snapshot(), nil
}

// settle pays both bonds to the winner and emits the outcome. Caller
// holds the lock.
func (m *ClaimManager) settle(c *Claim, w Winner, step uint64) {
	pot := new(uint256.Int).Add(c.Bond, m.minBond)
	if w == WinnerClaimant {
		c.Status = ClaimResolvedValid
		m.credit(c.Claimant, pot)
		m.notifier.ClaimVerified(ClaimVerifiedEvent{ClaimID: c.ID, Claimant: c.Claimant})
		m.mc.Inc("dispute.claims.verified", 1, nil)
	} else {
		c.Status = ClaimResolvedInvalid
		m.credit(c.Challenger, pot)
		m.notifier.ClaimFailed(ClaimFailedEvent{ClaimID: c.ID, Claimant: c.Claimant, Challenger: c.Challenger})
		m.mc.Inc("dispute.claims.failed", 1, nil)
	}
	m.notifier.SessionDecided(SessionDecidedEvent{ClaimID: c.ID, DisputedStep: step, Winner: w})
	m.log.Info("claim resolved", "claim", c.ID, "winner", w.String(), "step", step)
}

func (m *ClaimManager) credit(addr types.Address, amount *uint256.Int) {
	b, ok := m.deposits[addr]
	if !ok {
		b = uint256.NewInt(0)
		m.deposits[addr] = b
	}
	b.Add(b, amount)
}

func (m *ClaimManager) debit(addr types.Address, amount *uint256.Int) error {
	b, ok := m.deposits[addr]
	if !ok || b.Lt(amount) {
		return ErrInsufficientDeposit
	}
	b.Sub(b, amount)
	return nil
}
