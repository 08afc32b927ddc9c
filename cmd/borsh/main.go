// borsh - JSON <-> Borsh conversion tool
//
// Usage:
//
//	borsh encode [--schema FILE] [input [output]]   JSON/YAML -> Borsh
//	borsh decode [--schema FILE] [input [output]]   Borsh -> JSON/YAML
//	borsh extract [input [output]]                  Copy the schema header
//	borsh strip [input [output]]                    Drop the schema header
//	borsh pack [--no-schema] [--compress]           Frame raw bytes as Vec<u8>
//	borsh unpack [--no-schema] [--compress]         Reverse pack
//	borsh schema compile|show|compact|digest        Work with schemas
//	borsh version                                   Print version info
//
// Input defaults to stdin and output to stdout. On failure nothing is
// written and the exit status is 1.
package main

import (
	"fmt"
	"os"
	"strings"
)

const libVersion = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	msg := err.Error()
	if !strings.HasPrefix(msg, "borsh: ") {
		msg = "borsh: " + msg
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
