// Command screeps-codec converts object ids, packed positions and memory
// snapshots between their wire and human-readable forms.
package main

import (
	"fmt"
	"io"
	"os"
)

const usage = `usage: screeps-codec <command> [flags] [args]

commands:
  id encode <id>              pack an id, print its 13-byte binary form
  id decode <hex>             decode a 13-byte (26 hex digit) binary id
  id compare <a> <b>          print -1, 0 or 1
  pos pack <room> <x> <y>     pack a position, e.g. "pos pack W1N1 25 25"
  pos unpack <packed>         decode a packed position
  pos host <host-packed>      decode a game engine __packedPos value
  pos step <packed> <dir>     move one tile (dir 1..8, clockwise from top)
  snapshot inspect <file>     print a memory snapshot
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "id":
		err = runID(args[1], args[2:], stdout)
	case "pos":
		err = runPos(args[1], args[2:], stdout)
	case "snapshot":
		err = runSnapshot(args[1], args[2:], stdout)
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}

	if err != nil {
		fmt.Fprintf(stderr, "screeps-codec: %v\n", err)
		if _, ok := err.(usageError); ok {
			fmt.Fprint(stderr, usage)
		}
		return 1
	}
	return 0
}

type usageError string

func (e usageError) Error() string { return string(e) }

func wantArgs(cmd string, args []string, n int) error {
	if len(args) != n {
		return usageError(fmt.Sprintf("%s: expected %d argument(s), got %d", cmd, n, len(args)))
	}
	return nil
}
