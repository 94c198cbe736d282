package dispute

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"

	"github.com/DogeDapp/dogethereum-contracts/core/types"
	"github.com/DogeDapp/dogethereum-contracts/metrics"
)

// recordingNotifier captures every event for assertions.
type recordingNotifier struct {
	submitted []ClaimSubmittedEvent
	decided   []SessionDecidedEvent
	verified  []ClaimVerifiedEvent
	failed    []ClaimFailedEvent
}

func (r *recordingNotifier) ClaimSubmitted(e ClaimSubmittedEvent) { r.submitted = append(r.submitted, e) }
func (r *recordingNotifier) SessionDecided(e SessionDecidedEvent) { r.decided = append(r.decided, e) }
func (r *recordingNotifier) ClaimVerified(e ClaimVerifiedEvent)   { r.verified = append(r.verified, e) }
func (r *recordingNotifier) ClaimFailed(e ClaimFailedEvent)       { r.failed = append(r.failed, e) }

var (
	claimant   = types.HexToAddress("0xaa")
	challenger = types.HexToAddress("0xbb")
)

func fundedManager(t *testing.T, bond uint64) (*ClaimManager, *recordingNotifier, *metrics.Collector) {
	t.Helper()
	rec := &recordingNotifier{}
	mc := metrics.NewCollector(0)
	m := NewClaimManager(uint256.NewInt(bond), rec, mc)
	for _, addr := range []types.Address{claimant, challenger} {
		if err := m.Deposit(addr, uint256.NewInt(10*bond)); err != nil {
			t.Fatalf("deposit: %v", err)
		}
	}
	return m, rec, mc
}

func TestDepositWithdraw(t *testing.T) {
	m := NewClaimManager(uint256.NewInt(100), nil, nil)
	addr := types.HexToAddress("0x01")

	if err := m.Deposit(addr, uint256.NewInt(0)); err != ErrZeroAmount {
		t.Fatalf("zero deposit err = %v, want ErrZeroAmount", err)
	}
	if err := m.Deposit(addr, uint256.NewInt(500)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if got := m.Balance(addr); !got.Eq(uint256.NewInt(500)) {
		t.Fatalf("balance = %s, want 500", got)
	}
	if err := m.Withdraw(addr, uint256.NewInt(600)); err != ErrInsufficientDeposit {
		t.Fatalf("overdraw err = %v, want ErrInsufficientDeposit", err)
	}
	if err := m.Withdraw(addr, uint256.NewInt(200)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if got := m.Balance(addr); !got.Eq(uint256.NewInt(300)) {
		t.Fatalf("balance = %s, want 300", got)
	}
}

func TestSubmitClaimLocksBond(t *testing.T) {
	tr := testTrace(t)
	m, rec, mc := fundedManager(t, 100)

	c, err := m.SubmitClaim(claimant, tr.Input, tr.Output)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.Status != ClaimCreated {
		t.Fatalf("status = %d, want ClaimCreated", c.Status)
	}
	if got := m.Balance(claimant); !got.Eq(uint256.NewInt(900)) {
		t.Fatalf("claimant balance = %s, want 900", got)
	}
	if len(rec.submitted) != 1 || rec.submitted[0].ClaimID != c.ID {
		t.Fatalf("submitted events = %+v", rec.submitted)
	}
	if got := mc.Count("dispute.claims.submitted"); got != 1 {
		t.Fatalf("submitted counter = %v, want 1", got)
	}

	// A pauper cannot claim.
	if _, err := m.SubmitClaim(types.HexToAddress("0xcc"), tr.Input, tr.Output); err != ErrInsufficientDeposit {
		t.Fatalf("err = %v, want ErrInsufficientDeposit", err)
	}
}

func TestChallengeGuards(t *testing.T) {
	tr := testTrace(t)
	m, _, _ := fundedManager(t, 100)
	c, _ := m.SubmitClaim(claimant, tr.Input, tr.Output)

	if _, err := m.ChallengeClaim(challenger, c.ID+99); err != ErrClaimNotFound {
		t.Fatalf("err = %v, want ErrClaimNotFound", err)
	}
	if _, err := m.ChallengeClaim(claimant, c.ID); err != ErrClaimSelfChallenge {
		t.Fatalf("err = %v, want ErrClaimSelfChallenge", err)
	}
	if _, err := m.ChallengeClaim(challenger, c.ID); err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if _, err := m.ChallengeClaim(challenger, c.ID); err != ErrClaimNotChallengable {
		t.Fatalf("double challenge err = %v, want ErrClaimNotChallengable", err)
	}
}

func TestChallengeIneligibleClaim(t *testing.T) {
	tr := testTrace(t)
	m, rec, _ := fundedManager(t, 100)

	// A 31-byte output can never be arbitrated; the challenger wins the
	// bonds outright.
	c, err := m.SubmitClaim(claimant, tr.Input, tr.Output[:31])
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := m.ChallengeClaim(challenger, c.ID); err != ErrClaimNotEligible {
		t.Fatalf("err = %v, want ErrClaimNotEligible", err)
	}
	c, _ = m.Claim(c.ID)
	if c.Status != ClaimResolvedInvalid {
		t.Fatalf("status = %d, want ClaimResolvedInvalid", c.Status)
	}
	// Challenger: 1000 - 100 bond + 200 pot.
	if got := m.Balance(challenger); !got.Eq(uint256.NewInt(1100)) {
		t.Fatalf("challenger balance = %s, want 1100", got)
	}
	if len(rec.failed) != 1 {
		t.Fatalf("failed events = %+v", rec.failed)
	}
}

// TestClaimLifecycleClaimantWins drives the whole flow: deposit, claim,
// challenge, bisection, resolution, payout.
func TestClaimLifecycleClaimantWins(t *testing.T) {
	tr := testTrace(t)
	m, rec, mc := fundedManager(t, 100)

	c, _ := m.SubmitClaim(claimant, tr.Input, tr.Output)
	g, err := m.ChallengeClaim(challenger, c.ID)
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if c, _ = m.Claim(c.ID); c.Status != ClaimAdmitted {
		t.Fatalf("status = %d, want ClaimAdmitted", c.Status)
	}

	for !g.IsConverged() {
		low, high := g.Bounds()
		mid := (low + high) / 2
		honest := boundaryHash(tr, mid)
		lie := honest
		lie[0] ^= 0xff
		if _, _, err := g.PlayRound(honest, lie); err != nil {
			t.Fatalf("round: %v", err)
		}
	}

	step := tr.Steps[g.DisputedStep()]
	w, err := m.ResolveSession(c.ID, step.PreState, step.PostState, step.Proof)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if w != WinnerClaimant {
		t.Fatalf("winner = %s, want claimant", w)
	}
	if c, _ = m.Claim(c.ID); c.Status != ClaimResolvedValid {
		t.Fatalf("status = %d, want ClaimResolvedValid", c.Status)
	}

	// Claimant: 1000 - 100 bond + 200 pot = 1100; challenger: 900.
	if got := m.Balance(claimant); !got.Eq(uint256.NewInt(1100)) {
		t.Fatalf("claimant balance = %s, want 1100", got)
	}
	if got := m.Balance(challenger); !got.Eq(uint256.NewInt(900)) {
		t.Fatalf("challenger balance = %s, want 900", got)
	}

	if len(rec.verified) != 1 || len(rec.decided) != 1 {
		t.Fatalf("events: verified=%d decided=%d", len(rec.verified), len(rec.decided))
	}
	if rec.decided[0].Winner != WinnerClaimant || rec.decided[0].DisputedStep != 1 {
		t.Fatalf("decided event = %+v", rec.decided[0])
	}
	if got := mc.Count("dispute.claims.verified"); got != 1 {
		t.Fatalf("verified counter = %v, want 1", got)
	}

	// The game is closed.
	if _, err := m.Game(c.ID); err != ErrNoOpenSession {
		t.Fatalf("err = %v, want ErrNoOpenSession", err)
	}
}

// TestClaimSnapshotIsolation: claims handed out by the manager are
// copies; mutating one cannot corrupt the managed record.
func TestClaimSnapshotIsolation(t *testing.T) {
	tr := testTrace(t)
	m, _, _ := fundedManager(t, 100)

	c, err := m.SubmitClaim(claimant, tr.Input, tr.Output)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	c.Status = ClaimResolvedValid
	c.Bond.SetUint64(0)
	c.Output[0] ^= 0xff

	got, err := m.Claim(c.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got.Status != ClaimCreated {
		t.Fatalf("status = %d, want ClaimCreated", got.Status)
	}
	if !got.Bond.Eq(uint256.NewInt(100)) {
		t.Fatalf("bond = %s, want 100", got.Bond)
	}
	if !bytes.Equal(got.Output, tr.Output) {
		t.Fatal("managed output mutated through a snapshot")
	}

	// The copy returned by Claim is equally isolated.
	got.Status = ClaimResolvedInvalid
	again, _ := m.Claim(c.ID)
	if again.Status != ClaimCreated {
		t.Fatalf("status = %d, want ClaimCreated", again.Status)
	}
}

func TestFanoutNotifier(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{}
	n := NewFanoutNotifier(a, NopNotifier{}, b)

	n.ClaimSubmitted(ClaimSubmittedEvent{ClaimID: 7})
	n.SessionDecided(SessionDecidedEvent{ClaimID: 7, Winner: WinnerChallenger})
	n.ClaimFailed(ClaimFailedEvent{ClaimID: 7})

	for _, r := range []*recordingNotifier{a, b} {
		if len(r.submitted) != 1 || len(r.decided) != 1 || len(r.failed) != 1 {
			t.Fatalf("fanout target events = %+v", r)
		}
	}
}
