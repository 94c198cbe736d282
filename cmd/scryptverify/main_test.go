package main

import (
	"encoding/hex"
	"testing"

	"github.com/DogeDapp/dogethereum-contracts/scrypt"
)

func TestRunVersion(t *testing.T) {
	if code := run([]string{"-version"}); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestRunBadFlag(t *testing.T) {
	if code := run([]string{"-nonsense"}); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunBadHex(t *testing.T) {
	if code := run([]string{"-step", "1", "-prestate", "0xzz"}); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunGenesisVerdicts(t *testing.T) {
	input := []byte("cli genesis input")
	post := scrypt.InputToState(input).Encode()

	args := []string{
		"-step", "0",
		"-prestate", hex.EncodeToString(input),
		"-poststate", hex.EncodeToString(post),
	}
	if code := run(args); code != 0 {
		t.Fatalf("valid genesis: exit code = %d, want 0", code)
	}

	post[0] ^= 0x01
	args[5] = hex.EncodeToString(post)
	if code := run(args); code != 1 {
		t.Fatalf("corrupted genesis: exit code = %d, want 1", code)
	}
}

func TestRunTraceMode(t *testing.T) {
	if code := run([]string{"-trace", "-input", "0xdeadbeef"}); code != 0 {
		t.Fatalf("trace mode exit code = %d, want 0", code)
	}
}

func TestParseHex(t *testing.T) {
	for _, s := range []string{"0xdeadbeef", "deadbeef"} {
		b, err := parseHex(s)
		if err != nil {
			t.Fatalf("parseHex(%q): %v", s, err)
		}
		if len(b) != 4 || b[0] != 0xde {
			t.Fatalf("parseHex(%q) = %x", s, b)
		}
	}
	if _, err := parseHex("0x0g"); err == nil {
		t.Fatal("invalid hex accepted")
	}
}
