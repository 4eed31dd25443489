package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/woxQAQ/screeps-go/internal/memory"
	"github.com/woxQAQ/screeps-go/pkg/position"
)

func runSnapshot(sub string, args []string, out io.Writer) error {
	if sub != "inspect" {
		return usageError(fmt.Sprintf("unknown snapshot command %q", sub))
	}

	flags := pflag.NewFlagSet("snapshot inspect", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	asJSON := flags.Bool("json", false, "Print entries as JSON")
	asString := flags.Bool("string", false, "Input is the base64 string form")
	if err := flags.Parse(args); err != nil {
		return usageError("snapshot inspect: " + err.Error())
	}
	if err := wantArgs("snapshot inspect", flags.Args(), 1); err != nil {
		return err
	}

	data, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		return err
	}

	var snap *memory.Snapshot
	if *asString {
		snap, err = memory.DecodeString(string(data))
	} else {
		snap, err = memory.Decode(data)
	}
	if err != nil {
		return err
	}

	if *asJSON {
		type entry struct {
			ID   string            `json:"id"`
			Pos  position.Position `json:"pos"`
			Kind string            `json:"kind,omitempty"`
		}
		doc := struct {
			Tick    uint64  `json:"tick"`
			Objects []entry `json:"objects"`
		}{Tick: snap.Tick, Objects: []entry{}}
		for _, e := range snap.Objects {
			doc.Objects = append(doc.Objects, entry{ID: e.ID.String(), Pos: e.Pos, Kind: e.Kind})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	fmt.Fprintf(out, "tick:    %d\n", snap.Tick)
	fmt.Fprintf(out, "objects: %d\n", len(snap.Objects))
	for _, e := range snap.Objects {
		fmt.Fprintf(out, "  %-24s %s %s\n", e.ID, e.Pos, e.Kind)
	}
	return nil
}
