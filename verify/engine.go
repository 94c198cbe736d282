// Package verify implements the step-verification engine: given one
// disputed step of the 2049-step scrypt computation, the two parties'
// claimed before and after states, and a memory proof, it decides in
// bounded work whether the transition is valid. The engine trusts nothing
// a party supplies beyond what the committed memory root establishes, and
// every malformed input degrades to an "invalid" verdict rather than an
// error escaping to the caller.
//
// engine.go is the merkle memory proof engine. A single 14-word proof
// carries a slot's four value words and the ten sibling hashes of its
// path, so the same buffer certifies a read and, mutated in place,
// authorizes the post-write root.
package verify

import (
	"errors"

	"github.com/DogeDapp/dogethereum-contracts/core/types"
	"github.com/DogeDapp/dogethereum-contracts/scrypt"
)

const (
	// ProofWords is the fixed word count of a memory proof: SlotWords
	// value words plus TreeDepth siblings.
	ProofWords = scrypt.SlotWords + scrypt.TreeDepth

	// ProofSize is the byte length of a serialized memory proof.
	ProofSize = ProofWords * types.HashLength

	// TotalSteps is the protocol-wide step count: genesis, 2048 mixing
	// steps, finalization.
	TotalSteps = scrypt.TotalSteps
)

// Proof engine errors. Any of these surfacing from a step makes the step
// invalid; none of them escape VerifyStep.
var (
	ErrProofSize      = errors.New("verify: memory proof must be exactly 14 words")
	ErrProofMismatch  = errors.New("verify: memory proof does not match committed root")
	ErrSlotOutOfRange = errors.New("verify: memory slot index out of range")
)

// MemProof is the working record for one step's memory access. It is
// created per verification call and discarded at return; the write path
// mutates it in place.
type MemProof struct {
	words [ProofWords]types.Hash
}

// ParseProof parses a serialized memory proof. The format is fixed: it
// fails unless the input is exactly ProofSize bytes.
func ParseProof(b []byte) (*MemProof, error) {
	if len(b) != ProofSize {
		return nil, ErrProofSize
	}
	var p MemProof
	for i := range p.words {
		copy(p.words[i][:], b[i*types.HashLength:])
	}
	return &p, nil
}

// Encode serializes the proof back into its 448-byte wire form.
func (p *MemProof) Encode() []byte {
	out := make([]byte, 0, ProofSize)
	for i := range p.words {
		out = append(out, p.words[i][:]...)
	}
	return out
}

// slotValue returns the four value words of the proven slot.
func (p *MemProof) slotValue() [scrypt.SlotWords]types.Hash {
	var v [scrypt.SlotWords]types.Hash
	copy(v[:], p.words[:scrypt.SlotWords])
	return v
}

// computeRoot folds the proof into a memory root for the given slot
// index: the slot commitment at the leaf, then ten rounds combining with
// the sibling words, taking the branch direction from bit i of the index.
func computeRoot(p *MemProof, index uint64) types.Hash {
	h := scrypt.LeafHash(p.slotValue())
	idx := index
	for i := 0; i < scrypt.TreeDepth; i++ {
		sib := p.words[scrypt.SlotWords+i]
		if idx&1 == 0 {
			h = scrypt.NodeHash(h, sib)
		} else {
			h = scrypt.NodeHash(sib, h)
		}
		idx >>= 1
	}
	return h
}

// provedMemory implements scrypt.Memory over a single proof and the
// state's committed root. It is the only path by which party-supplied
// memory values reach the mixing function.
type provedMemory struct {
	state *scrypt.State
	proof *MemProof
}

// check authenticates the proof's slot value against the current root.
func (m *provedMemory) check(index uint64) error {
	if index >= scrypt.MemSlots {
		return ErrSlotOutOfRange
	}
	if computeRoot(m.proof, index) != m.state.MemoryHash {
		return ErrProofMismatch
	}
	return nil
}

// Read returns the proven slot value. No mutation.
func (m *provedMemory) Read(index uint64) ([scrypt.SlotWords]types.Hash, error) {
	if err := m.check(index); err != nil {
		return [scrypt.SlotWords]types.Hash{}, err
	}
	return m.proof.slotValue(), nil
}

// Write authenticates the slot's previous value against the pre-write
// root, then overwrites the value words in the same buffer and recomputes
// the root over it. The siblings are untouched, which is what lets one
// proof be both a pre-image proof and an update certificate.
func (m *provedMemory) Write(index uint64, values [scrypt.SlotWords]types.Hash) error {
	if err := m.check(index); err != nil {
		return err
	}
	copy(m.proof.words[:scrypt.SlotWords], values[:])
	m.state.MemoryHash = computeRoot(m.proof, index)
	return nil
}
