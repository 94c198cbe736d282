// Command scryptverify arbitrates a single step of a disputed scrypt run
// from the command line, or generates a full reference trace.
//
// Usage:
//
//	scryptverify -step N -prestate <hex> -poststate <hex> -proof <hex>
//	scryptverify -trace -input <hex>
//
// In verification mode it prints "valid" or "invalid" and exits 0 or 1.
// In trace mode it runs the full 2049-step computation over the input and
// prints the 32-byte output in hex.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/DogeDapp/dogethereum-contracts/scrypt"
	"github.com/DogeDapp/dogethereum-contracts/verify"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0"
var version = "v0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

// config holds the parsed CLI arguments.
type config struct {
	step      uint64
	preState  string
	postState string
	proof     string
	trace     bool
	input     string
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	var cfg config
	fs := flag.NewFlagSet("scryptverify", flag.ContinueOnError)
	fs.Uint64Var(&cfg.step, "step", 0, "disputed step index (0..2049)")
	fs.StringVar(&cfg.preState, "prestate", "", "hex before-state (raw input for step 0)")
	fs.StringVar(&cfg.postState, "poststate", "", "hex after-state (32-byte output for step 2049)")
	fs.StringVar(&cfg.proof, "proof", "", "hex memory proof (raw input for step 2049)")
	fs.BoolVar(&cfg.trace, "trace", false, "run a full reference trace instead of verifying")
	fs.StringVar(&cfg.input, "input", "", "hex input for trace mode")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Printf("scryptverify %s\n", version)
		return 0
	}

	if cfg.trace {
		return runTrace(cfg)
	}
	return runVerify(cfg)
}

func runVerify(cfg config) int {
	pre, err := parseHex(cfg.preState)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -prestate: %v\n", err)
		return 2
	}
	post, err := parseHex(cfg.postState)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -poststate: %v\n", err)
		return 2
	}
	proof, err := parseHex(cfg.proof)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -proof: %v\n", err)
		return 2
	}

	if verify.VerifyStep(cfg.step, pre, post, proof) {
		fmt.Println("valid")
		return 0
	}
	fmt.Println("invalid")
	return 1
}

func runTrace(cfg config) int {
	input, err := parseHex(cfg.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -input: %v\n", err)
		return 2
	}
	tr := scrypt.RunTrace(input)
	fmt.Printf("0x%x\n", tr.Output)
	return 0
}

// parseHex decodes a hex string, stripping an optional 0x prefix. The
// empty string decodes to empty bytes.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	return hex.DecodeString(s)
}
