// state.go defines the computation state record and its fixed wire layout.
// The encoding is versionless: any change to word order or size breaks
// proof compatibility with previously committed roots.
package scrypt

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/pbkdf2"

	"github.com/DogeDapp/dogethereum-contracts/core/types"
	"github.com/DogeDapp/dogethereum-contracts/crypto"
)

// StateSize is the byte length of an encoded State: four working words,
// the memory root, and the input commitment.
const StateSize = SlotWords*types.HashLength + 2*types.HashLength

// OutputSize is the byte length of the final derived output.
const OutputSize = 32

// ErrStateSize is returned when decoding a byte string that is not exactly
// StateSize bytes.
var ErrStateSize = errors.New("scrypt: encoded state must be 192 bytes")

// State is the computation's working set at a step boundary. Vars is the
// 128-byte scrypt working block X, split into four words so it shares the
// memory slot layout. MemoryHash commits to the full 1024-slot memory and
// InputHash to the original input; only those two fields are interpreted
// by the verification engine.
type State struct {
	Vars       [SlotWords]types.Hash
	MemoryHash types.Hash
	InputHash  types.Hash
}

// Encode serializes the state into its fixed 192-byte layout:
// Vars[0] .. Vars[3] || MemoryHash || InputHash.
func (s *State) Encode() []byte {
	out := make([]byte, 0, StateSize)
	for i := range s.Vars {
		out = append(out, s.Vars[i][:]...)
	}
	out = append(out, s.MemoryHash[:]...)
	out = append(out, s.InputHash[:]...)
	return out
}

// DecodeState parses an encoded state. It fails cleanly on any length
// other than StateSize; it never substitutes defaults.
func DecodeState(b []byte) (*State, error) {
	if len(b) != StateSize {
		return nil, ErrStateSize
	}
	var s State
	for i := range s.Vars {
		copy(s.Vars[i][:], b[i*types.HashLength:])
	}
	copy(s.MemoryHash[:], b[SlotWords*types.HashLength:])
	copy(s.InputHash[:], b[(SlotWords+1)*types.HashLength:])
	return &s, nil
}

// InputToState builds the genesis state from the raw input. The working
// block is the scrypt expansion PBKDF2-HMAC-SHA256(input, input, 1, 128),
// the memory root is the all-zero memory's, and the input commitment binds
// the finalization step to this exact input.
func InputToState(input []byte) *State {
	var s State
	block := pbkdf2.Key(input, input, 1, BlockSize, sha256.New)
	for i := range s.Vars {
		copy(s.Vars[i][:], block[i*types.HashLength:])
	}
	s.MemoryHash = ZeroMemoryRoot()
	s.InputHash = crypto.Keccak256Hash(input)
	return &s
}

// FinalStateToOutput derives the 32-byte output from the last mixing
// state: the scrypt compression PBKDF2-HMAC-SHA256(input, X, 1, 32).
func FinalStateToOutput(s *State, input []byte) []byte {
	var block [BlockSize]byte
	for i := range s.Vars {
		copy(block[i*types.HashLength:], s.Vars[i][:])
	}
	return pbkdf2.Key(input, block[:], 1, OutputSize, sha256.New)
}
