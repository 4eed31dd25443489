package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/woxQAQ/screeps-go/pkg/objectid"
)

func runID(sub string, args []string, out io.Writer) error {
	switch sub {
	case "encode":
		if err := wantArgs("id encode", args, 1); err != nil {
			return err
		}
		id, err := objectid.Parse(args[0])
		if err != nil {
			return err
		}
		b, _ := id.MarshalBinary()
		w := id.Uint32s()
		fmt.Fprintf(out, "binary: %s\n", hex.EncodeToString(b))
		fmt.Fprintf(out, "words:  %d %d %d\n", w[0], w[1], w[2])
		fmt.Fprintf(out, "digits: %d\n", id.Len())
		return nil

	case "decode":
		if err := wantArgs("id decode", args, 1); err != nil {
			return err
		}
		b, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("id decode: %w", err)
		}
		var id objectid.RawID
		if err := id.UnmarshalBinary(b); err != nil {
			return err
		}
		fmt.Fprintln(out, id.String())
		return nil

	case "compare":
		if err := wantArgs("id compare", args, 2); err != nil {
			return err
		}
		a, err := objectid.Parse(args[0])
		if err != nil {
			return err
		}
		b, err := objectid.Parse(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, objectid.Compare(a, b))
		return nil

	default:
		return usageError(fmt.Sprintf("unknown id command %q", sub))
	}
}
