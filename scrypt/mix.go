// mix.go implements one unit of the scrypt mixing function. Steps 0..1023
// fill memory (V[i] = X, then X = BlockMix(X)); steps 1024..2047 read it
// back (X = BlockMix(X xor V[Integerify(X)])). All memory access goes
// through the Memory interface so the verification engine can substitute a
// proof-authenticated view for the runner's plaintext one.
package scrypt

import (
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/salsa20/salsa"

	"github.com/DogeDapp/dogethereum-contracts/core/types"
)

// Mixing errors.
var (
	ErrMixStepOutOfRange = errors.New("scrypt: mixing step index out of range")
	ErrSlotOutOfRange    = errors.New("scrypt: memory slot index out of range")
)

// Memory is the slot-addressed memory a mixing step reads and writes.
// Implementations authenticate or record accesses as they see fit; any
// error aborts the step.
type Memory interface {
	Read(index uint64) ([SlotWords]types.Hash, error)
	Write(index uint64, values [SlotWords]types.Hash) error
}

// RunStep advances st by mixing step i (0-based, i < InteriorSteps). The
// memory write of a fill step must complete before the block mix so that
// V[i] records the pre-mix block.
func RunStep(st *State, i uint64, mem Memory) error {
	switch {
	case i < MemSlots:
		if err := mem.Write(i, st.Vars); err != nil {
			return err
		}
		st.Vars = blockMix(st.Vars)
	case i < InteriorSteps:
		v, err := mem.Read(Integerify(st.Vars))
		if err != nil {
			return err
		}
		st.Vars = blockMix(xorVars(st.Vars, v))
	default:
		return ErrMixStepOutOfRange
	}
	return nil
}

// Integerify maps the working block to a memory slot index: the first
// eight bytes of the second 64-byte half, little-endian, mod MemSlots.
func Integerify(vars [SlotWords]types.Hash) uint64 {
	return binary.LittleEndian.Uint64(vars[2][:8]) % MemSlots
}

// blockMix is scrypt BlockMix for r=1 over the Salsa20/8 core:
// Y0 = Salsa8(B1 xor B0), Y1 = Salsa8(Y0 xor B1), result (Y0, Y1).
func blockMix(vars [SlotWords]types.Hash) [SlotWords]types.Hash {
	var b0, b1, y0, y1, t [64]byte
	copy(b0[:32], vars[0][:])
	copy(b0[32:], vars[1][:])
	copy(b1[:32], vars[2][:])
	copy(b1[32:], vars[3][:])

	xorBlock(&t, &b1, &b0)
	salsa.Core208(&y0, &t)
	xorBlock(&t, &y0, &b1)
	salsa.Core208(&y1, &t)

	var out [SlotWords]types.Hash
	copy(out[0][:], y0[:32])
	copy(out[1][:], y0[32:])
	copy(out[2][:], y1[:32])
	copy(out[3][:], y1[32:])
	return out
}

func xorVars(a, b [SlotWords]types.Hash) [SlotWords]types.Hash {
	for i := range a {
		for j := range a[i] {
			a[i][j] ^= b[i][j]
		}
	}
	return a
}

func xorBlock(dst, a, b *[64]byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}
