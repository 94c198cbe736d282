// Package scrypt implements the memory-hard computation being arbitrated:
// a dogecoin-style scrypt pass (N=1024, r=1, p=1) whose 1024-slot working
// memory is committed to by a depth-10 Keccak merkle tree. The package owns
// the state record and its fixed wire layout, the per-step mixing function,
// and an off-chain runner that produces full reference traces with memory
// proofs. The verify package replays single steps against these semantics.
package scrypt

import (
	"sync"

	"github.com/DogeDapp/dogethereum-contracts/core/types"
	"github.com/DogeDapp/dogethereum-contracts/crypto"
)

const (
	// MemSlots is the number of addressable memory slots (scrypt N).
	MemSlots = 1024

	// SlotWords is the number of 32-byte words per memory slot. One slot
	// holds one 128-byte scrypt block (r=1).
	SlotWords = 4

	// TreeDepth is the depth of the binary merkle tree over MemSlots leaves.
	TreeDepth = 10

	// BlockSize is the byte size of the scrypt working block.
	BlockSize = SlotWords * types.HashLength

	// InteriorSteps is the number of mixing steps: MemSlots fill steps
	// followed by MemSlots read steps.
	InteriorSteps = 2 * MemSlots

	// TotalSteps is the step index of the finalization transition. A full
	// run has transitions 0 (genesis), 1..InteriorSteps (mixing), and
	// TotalSteps (finalization).
	TotalSteps = InteriorSteps + 1
)

// LeafHash returns the commitment of one memory slot: the Keccak256 of its
// four words concatenated. This is a single-level combination, not a
// sibling pair, so slot values can never be confused with interior nodes.
func LeafHash(values [SlotWords]types.Hash) types.Hash {
	return crypto.Keccak256Hash(values[0][:], values[1][:], values[2][:], values[3][:])
}

// NodeHash combines two child commitments into their parent.
func NodeHash(left, right types.Hash) types.Hash {
	return crypto.Keccak256Hash(left[:], right[:])
}

var (
	zeroRootOnce sync.Once
	zeroRoot     types.Hash
)

// ZeroMemoryRoot returns the merkle root of the all-zero memory. Every run
// starts from it; each level of the zero tree hashes the level below with
// itself.
func ZeroMemoryRoot() types.Hash {
	zeroRootOnce.Do(func() {
		h := LeafHash([SlotWords]types.Hash{})
		for i := 0; i < TreeDepth; i++ {
			h = NodeHash(h, h)
		}
		zeroRoot = h
	})
	return zeroRoot
}
