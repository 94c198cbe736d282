// Package bridge adapts the arbitration engine to its on-chain contract
// surface. The step verifier ultimately backs an Ethereum contract; this
// package packs and unpacks the contract's calldata and event payloads
// with go-ethereum's ABI machinery so off-chain agents and the engine
// agree on one wire format.
package bridge

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	gethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/DogeDapp/dogethereum-contracts/core/types"
	"github.com/DogeDapp/dogethereum-contracts/crypto"
)

// ABI adapter errors.
var (
	ErrCalldataShort = errors.New("bridge: calldata shorter than a selector")
	ErrBadSelector   = errors.New("bridge: selector does not match verifyStep")
	ErrBadArguments  = errors.New("bridge: calldata arguments do not decode")
)

// verifyStepSig is the Solidity signature of the arbitration entry point.
const verifyStepSig = "verifyStep(uint256,bytes,bytes,bytes)"

var (
	uint256Ty = mustType("uint256")
	bytesTy   = mustType("bytes")
	addressTy = mustType("address")

	// verifyStepArgs lays out the verifyStep calldata after the selector.
	verifyStepArgs = abi.Arguments{
		{Name: "step", Type: uint256Ty},
		{Name: "preState", Type: bytesTy},
		{Name: "postState", Type: bytesTy},
		{Name: "proof", Type: bytesTy},
	}

	// claimEventArgs lays out the data section of claim outcome events.
	claimEventArgs = abi.Arguments{
		{Name: "claimID", Type: uint256Ty},
		{Name: "claimant", Type: addressTy},
	}

	// VerifyStepSelector is the 4-byte function selector of verifyStep.
	VerifyStepSelector = selector(verifyStepSig)

	// ClaimVerifiedTopic and ClaimFailedTopic identify the claim outcome
	// events in receipt logs.
	ClaimVerifiedTopic = eventTopic("ClaimVerified(uint256,address)")
	ClaimFailedTopic   = eventTopic("ClaimFailed(uint256,address)")
)

func mustType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

func selector(sig string) [4]byte {
	var s [4]byte
	copy(s[:], crypto.Keccak256([]byte(sig))[:4])
	return s
}

func eventTopic(sig string) gethcommon.Hash {
	return gethcommon.BytesToHash(crypto.Keccak256([]byte(sig)))
}

// PackVerifyStep encodes a verifyStep call: selector followed by the
// ABI-encoded step index, state pair, and memory proof.
func PackVerifyStep(step uint64, preState, postState, proof []byte) ([]byte, error) {
	args, err := verifyStepArgs.Pack(
		new(big.Int).SetUint64(step),
		preState,
		postState,
		proof,
	)
	if err != nil {
		return nil, err
	}
	return append(append([]byte(nil), VerifyStepSelector[:]...), args...), nil
}

// UnpackVerifyStep decodes verifyStep calldata produced by PackVerifyStep
// or by an on-chain caller.
func UnpackVerifyStep(calldata []byte) (step uint64, preState, postState, proof []byte, err error) {
	if len(calldata) < 4 {
		return 0, nil, nil, nil, ErrCalldataShort
	}
	if [4]byte(calldata[:4]) != VerifyStepSelector {
		return 0, nil, nil, nil, ErrBadSelector
	}
	vals, err := verifyStepArgs.Unpack(calldata[4:])
	if err != nil {
		return 0, nil, nil, nil, err
	}
	stepBig, ok1 := vals[0].(*big.Int)
	pre, ok2 := vals[1].([]byte)
	post, ok3 := vals[2].([]byte)
	prf, ok4 := vals[3].([]byte)
	if !ok1 || !ok2 || !ok3 || !ok4 || !stepBig.IsUint64() {
		return 0, nil, nil, nil, ErrBadArguments
	}
	return stepBig.Uint64(), pre, post, prf, nil
}

// PackClaimOutcome encodes a claim outcome event's data section.
func PackClaimOutcome(claimID uint64, claimant types.Address) ([]byte, error) {
	return claimEventArgs.Pack(new(big.Int).SetUint64(claimID), ToGethAddress(claimant))
}

// UnpackClaimOutcome decodes a claim outcome event's data section.
func UnpackClaimOutcome(data []byte) (uint64, types.Address, error) {
	vals, err := claimEventArgs.Unpack(data)
	if err != nil {
		return 0, types.Address{}, err
	}
	id, ok1 := vals[0].(*big.Int)
	addr, ok2 := vals[1].(gethcommon.Address)
	if !ok1 || !ok2 || !id.IsUint64() {
		return 0, types.Address{}, ErrBadArguments
	}
	return id.Uint64(), FromGethAddress(addr), nil
}

// ToGethHash converts a protocol hash to a go-ethereum hash.
func ToGethHash(h types.Hash) gethcommon.Hash {
	return gethcommon.Hash(h)
}

// FromGethHash converts a go-ethereum hash to a protocol hash.
func FromGethHash(h gethcommon.Hash) types.Hash {
	return types.Hash(h)
}

// ToGethAddress converts a protocol address to a go-ethereum address.
func ToGethAddress(a types.Address) gethcommon.Address {
	return gethcommon.Address(a)
}

// FromGethAddress converts a go-ethereum address to a protocol address.
func FromGethAddress(a gethcommon.Address) types.Address {
	return types.Address(a)
}
