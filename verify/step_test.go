package verify

import (
	"sync"
	"testing"

	"github.com/DogeDapp/dogethereum-contracts/scrypt"
)

var (
	traceOnce  sync.Once
	traceCache *scrypt.Trace
)

// testTrace returns one shared known-correct reference trace.
func testTrace(t *testing.T) *scrypt.Trace {
	t.Helper()
	traceOnce.Do(func() {
		traceCache = scrypt.RunTrace([]byte("step verification trace"))
	})
	return traceCache
}

func TestVerifyStepGenesis(t *testing.T) {
	input := []byte("genesis input")
	post := scrypt.InputToState(input).Encode()

	// Valid independent of the proof's contents.
	for _, proof := range [][]byte{nil, {}, make([]byte, 7), make([]byte, ProofSize)} {
		if !VerifyStep(0, input, post, proof) {
			t.Fatal("correct genesis transition rejected")
		}
	}

	// Any deviation in the post-state fails.
	bad := append([]byte(nil), post...)
	bad[0] ^= 0x01
	if VerifyStep(0, input, bad, nil) {
		t.Fatal("corrupted genesis post-state accepted")
	}
	if VerifyStep(0, input, post[:len(post)-1], nil) {
		t.Fatal("truncated genesis post-state accepted")
	}
}

func TestVerifyStepInterior(t *testing.T) {
	tr := testTrace(t)
	for _, s := range []uint64{1, 2, 1023, 1024, 1025, 2047, 2048} {
		step := tr.Steps[s]
		if !VerifyStep(s, step.PreState, step.PostState, step.Proof) {
			t.Fatalf("step %d: correct transition rejected", s)
		}
	}
}

func TestVerifyStepInteriorCorruptPostState(t *testing.T) {
	tr := testTrace(t)
	step := tr.Steps[700]
	post := append([]byte(nil), step.PostState...)
	post[13] ^= 0x80
	if VerifyStep(700, step.PreState, post, step.Proof) {
		t.Fatal("corrupted post-state accepted")
	}
}

func TestVerifyStepInteriorCorruptProof(t *testing.T) {
	tr := testTrace(t)
	step := tr.Steps[42]
	proof := append([]byte(nil), step.Proof...)
	proof[100] ^= 0x01
	if VerifyStep(42, step.PreState, step.PostState, proof) {
		t.Fatal("tampered proof accepted")
	}
}

func TestVerifyStepInteriorMalformedInputs(t *testing.T) {
	tr := testTrace(t)
	step := tr.Steps[5]

	// Undecodable pre-state.
	if VerifyStep(5, step.PreState[:scrypt.StateSize-1], step.PostState, step.Proof) {
		t.Fatal("truncated pre-state accepted")
	}
	// Proof not exactly 14 words.
	for _, n := range []int{0, ProofSize - 32, ProofSize - 1, ProofSize + 32} {
		if VerifyStep(5, step.PreState, step.PostState, make([]byte, n)) {
			t.Fatalf("proof of %d bytes accepted", n)
		}
	}
}

func TestVerifyStepFinalization(t *testing.T) {
	tr := testTrace(t)
	last := tr.Steps[TotalSteps]

	if !VerifyStep(TotalSteps, last.PreState, last.PostState, last.Proof) {
		t.Fatal("correct finalization rejected")
	}

	// The prover must reveal the exact committed input.
	wrongInput := append([]byte(nil), tr.Input...)
	wrongInput[0] ^= 0xff
	if VerifyStep(TotalSteps, last.PreState, last.PostState, wrongInput) {
		t.Fatal("finalization accepted a non-committed input")
	}

	// Wrong output fails even with the right input.
	wrongOut := append([]byte(nil), last.PostState...)
	wrongOut[31] ^= 0x01
	if VerifyStep(TotalSteps, last.PreState, wrongOut, last.Proof) {
		t.Fatal("finalization accepted a wrong output")
	}

	// Undecodable pre-state fails.
	if VerifyStep(TotalSteps, last.PreState[:10], last.PostState, last.Proof) {
		t.Fatal("finalization accepted a malformed pre-state")
	}
}

func TestVerifyStepOutOfRange(t *testing.T) {
	tr := testTrace(t)
	last := tr.Steps[TotalSteps]
	for _, s := range []uint64{TotalSteps + 1, TotalSteps + 1000, ^uint64(0)} {
		if VerifyStep(s, last.PreState, last.PostState, last.Proof) {
			t.Fatalf("step %d accepted", s)
		}
	}
}

func TestVerifyStepNoPanicOnGarbage(t *testing.T) {
	// Arbitration must always terminate with a verdict; arbitrary bytes
	// in any position only ever produce false.
	garbage := [][]byte{nil, {}, {0x01}, make([]byte, 33), make([]byte, 1000)}
	for _, pre := range garbage {
		for _, post := range garbage {
			for _, proof := range garbage {
				for _, s := range []uint64{1, 2048, TotalSteps} {
					if VerifyStep(s, pre, post, proof) {
						t.Fatalf("garbage accepted at step %d", s)
					}
				}
			}
		}
	}
}
