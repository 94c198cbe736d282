// runner.go is the off-chain prover side: it executes the full computation
// with plaintext memory and an incrementally maintained hash tree, so the
// state pair and memory proof for any step can be produced. The honest
// party of a dispute answers bisection queries and the final single-step
// arbitration from a trace generated here.
package scrypt

import (
	"github.com/DogeDapp/dogethereum-contracts/core/types"
)

// memTree holds the plaintext memory values together with every node of
// the merkle tree over them. Writes update the leaf's root path in place.
type memTree struct {
	values [MemSlots][SlotWords]types.Hash
	// nodes[0] are the MemSlots leaf hashes; nodes[TreeDepth][0] is the root.
	nodes [TreeDepth + 1][]types.Hash
}

func newMemTree() *memTree {
	t := &memTree{}
	h := LeafHash([SlotWords]types.Hash{})
	width := MemSlots
	for lvl := 0; lvl <= TreeDepth; lvl++ {
		t.nodes[lvl] = make([]types.Hash, width)
		for i := range t.nodes[lvl] {
			t.nodes[lvl][i] = h
		}
		h = NodeHash(h, h)
		width /= 2
	}
	return t
}

// Root returns the current memory commitment.
func (t *memTree) Root() types.Hash {
	return t.nodes[TreeDepth][0]
}

// Read returns the plaintext value of a slot.
func (t *memTree) Read(index uint64) ([SlotWords]types.Hash, error) {
	if index >= MemSlots {
		return [SlotWords]types.Hash{}, ErrSlotOutOfRange
	}
	return t.values[index], nil
}

// Write stores a slot value and rehashes its path to the root.
func (t *memTree) Write(index uint64, values [SlotWords]types.Hash) error {
	if index >= MemSlots {
		return ErrSlotOutOfRange
	}
	t.values[index] = values
	t.nodes[0][index] = LeafHash(values)
	idx := index
	for lvl := 0; lvl < TreeDepth; lvl++ {
		left := idx &^ 1
		parent := NodeHash(t.nodes[lvl][left], t.nodes[lvl][left+1])
		idx >>= 1
		t.nodes[lvl+1][idx] = parent
	}
	return nil
}

// ProofFor extracts the 448-byte memory proof for a slot against the
// current root: the slot's four value words followed by the ten sibling
// hashes from leaf to root.
func (t *memTree) ProofFor(index uint64) []byte {
	out := make([]byte, 0, (SlotWords+TreeDepth)*types.HashLength)
	for i := 0; i < SlotWords; i++ {
		out = append(out, t.values[index][i][:]...)
	}
	idx := index
	for lvl := 0; lvl < TreeDepth; lvl++ {
		out = append(out, t.nodes[lvl][idx^1][:]...)
		idx >>= 1
	}
	return out
}

// Runner executes the 2049-step computation one step at a time, exposing
// the encoded state and memory proof at each boundary.
type Runner struct {
	input []byte
	state *State
	tree  *memTree
	next  uint64 // next mixing step, 0..InteriorSteps
}

// NewRunner starts a run over the given input.
func NewRunner(input []byte) *Runner {
	return &Runner{
		input: append([]byte(nil), input...),
		state: InputToState(input),
		tree:  newMemTree(),
	}
}

// State returns the current state. Callers must not retain it across
// Advance calls; Encode it instead.
func (r *Runner) State() *State { return r.state }

// Done reports whether all mixing steps have run.
func (r *Runner) Done() bool { return r.next >= InteriorSteps }

// NextProof returns the memory proof for the slot the next mixing step
// touches, against the current root. Returns nil once the run is done.
func (r *Runner) NextProof() []byte {
	if r.Done() {
		return nil
	}
	idx := r.next
	if idx >= MemSlots {
		idx = Integerify(r.state.Vars)
	}
	return r.tree.ProofFor(idx)
}

// Advance runs the next mixing step against the plaintext memory.
func (r *Runner) Advance() error {
	if r.Done() {
		return ErrMixStepOutOfRange
	}
	if err := RunStep(r.state, r.next, r.tree); err != nil {
		return err
	}
	r.state.MemoryHash = r.tree.Root()
	r.next++
	return nil
}

// Output derives the final 32-byte output from the current state.
func (r *Runner) Output() []byte {
	return FinalStateToOutput(r.state, r.input)
}

// TraceStep is one transition of a reference trace, laid out exactly as
// the verification engine consumes it.
type TraceStep struct {
	Step      uint64
	PreState  []byte // raw input for step 0, encoded state otherwise
	PostState []byte // encoded state, or the 32-byte output for the last step
	Proof     []byte // memory proof for mixing steps, raw input for the last
}

// Trace is a complete reference run: transitions 0..TotalSteps.
type Trace struct {
	Input  []byte
	Output []byte
	Steps  []TraceStep
}

// RunTrace executes a full run and records every transition with its
// proof. Steps[s].Step == s for s in 0..TotalSteps.
func RunTrace(input []byte) *Trace {
	r := NewRunner(input)
	tr := &Trace{
		Input: append([]byte(nil), input...),
		Steps: make([]TraceStep, 0, TotalSteps+1),
	}
	tr.Steps = append(tr.Steps, TraceStep{
		Step:      0,
		PreState:  append([]byte(nil), input...),
		PostState: r.state.Encode(),
	})
	for !r.Done() {
		pre := r.state.Encode()
		proof := r.NextProof()
		if err := r.Advance(); err != nil {
			// Unreachable: the runner only feeds in-range steps and indices.
			panic(err)
		}
		tr.Steps = append(tr.Steps, TraceStep{
			Step:      r.next,
			PreState:  pre,
			PostState: r.state.Encode(),
			Proof:     proof,
		})
	}
	tr.Output = r.Output()
	tr.Steps = append(tr.Steps, TraceStep{
		Step:      TotalSteps,
		PreState:  r.state.Encode(),
		PostState: append([]byte(nil), tr.Output...),
		Proof:     append([]byte(nil), input...),
	})
	return tr
}
