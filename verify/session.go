// session.go holds the dispute-session admission check. The session
// record itself is owned by the outer dispute game; this package only
// reads it.
package verify

import (
	"github.com/DogeDapp/dogethereum-contracts/core/types"
	"github.com/DogeDapp/dogethereum-contracts/scrypt"
)

// Session is one arbitration instance as seen by the engine: the claimed
// output and the step count the dispute is scoped to, plus the parties
// for bookkeeping.
type Session struct {
	ID         uint64
	Claimant   types.Address
	Challenger types.Address
	Input      []byte
	Output     []byte
	LowStep    uint64
	HighStep   uint64
}

// IsInitiallyValid reports whether a session is eligible for step
// arbitration at all: the claimed output must be exactly 32 bytes and the
// declared step count must match the protocol's fixed 2049 transitions.
// Sessions failing either are rejected before any step-level work.
func IsInitiallyValid(s *Session) bool {
	if s == nil {
		return false
	}
	return len(s.Output) == scrypt.OutputSize && s.HighStep == TotalSteps
}
