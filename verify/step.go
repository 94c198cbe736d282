// step.go is the per-step transition dispatcher, the engine's sole
// arbitration entry point.
package verify

import (
	"bytes"

	"github.com/DogeDapp/dogethereum-contracts/crypto"
	"github.com/DogeDapp/dogethereum-contracts/scrypt"
)

// VerifyStep decides whether one step's claimed (preState, postState)
// transition, with accompanying proof, is valid. It is a pure function of
// its inputs and always terminates with a verdict: parse failures, proof
// mismatches, and out-of-range steps all yield false.
//
// Dispatch by step index:
//
//	0               genesis: preState is the raw input, postState must be
//	                the encoded genesis state; proof is ignored.
//	1..2048         mixing: one scrypt step with memory access
//	                authenticated by proof against preState's root.
//	2049            finalization: proof must reveal the exact input
//	                committed at genesis, postState the derived output.
//	>2049           invalid.
func VerifyStep(step uint64, preState, postState, proof []byte) bool {
	switch {
	case step == 0:
		st := scrypt.InputToState(preState)
		return bytes.Equal(st.Encode(), postState)

	case step <= scrypt.InteriorSteps:
		st, err := scrypt.DecodeState(preState)
		if err != nil {
			return false
		}
		mp, err := ParseProof(proof)
		if err != nil {
			return false
		}
		mem := &provedMemory{state: st, proof: mp}
		if err := scrypt.RunStep(st, step-1, mem); err != nil {
			return false
		}
		return bytes.Equal(st.Encode(), postState)

	case step == TotalSteps:
		st, err := scrypt.DecodeState(preState)
		if err != nil {
			return false
		}
		if crypto.Keccak256Hash(proof) != st.InputHash {
			return false
		}
		return bytes.Equal(scrypt.FinalStateToOutput(st, proof), postState)

	default:
		return false
	}
}
