package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/woxQAQ/screeps-go/pkg/position"
)

func runPos(sub string, args []string, out io.Writer) error {
	switch sub {
	case "pack":
		if err := wantArgs("pos pack", args, 3); err != nil {
			return err
		}
		room, err := position.ParseRoomName(args[0])
		if err != nil {
			return err
		}
		x, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("pos pack: x: %w", err)
		}
		y, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("pos pack: y: %w", err)
		}
		p, err := position.FromCoords(room.X(), room.Y(), x, y)
		if err != nil {
			return err
		}
		printPos(out, p)
		return nil

	case "unpack", "host":
		if err := wantArgs("pos "+sub, args, 1); err != nil {
			return err
		}
		v, err := parseUint32(args[0])
		if err != nil {
			return err
		}
		var p position.Position
		if sub == "host" {
			p, err = position.FromHostPacked(v)
		} else {
			p, err = position.FromPacked(v)
		}
		if err != nil {
			return err
		}
		printPos(out, p)
		return nil

	case "step":
		if err := wantArgs("pos step", args, 2); err != nil {
			return err
		}
		v, err := parseUint32(args[0])
		if err != nil {
			return err
		}
		p, err := position.FromPacked(v)
		if err != nil {
			return err
		}
		code, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("pos step: direction: %w", err)
		}
		d, err := position.ParseDirection(code)
		if err != nil {
			return err
		}
		next, err := p.Step(d)
		if err != nil {
			return err
		}
		printPos(out, next)
		return nil

	default:
		return usageError(fmt.Sprintf("unknown pos command %q", sub))
	}
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid packed value %q: %w", s, err)
	}
	return uint32(v), nil
}

func printPos(out io.Writer, p position.Position) {
	wx, wy := p.WorldCoords()
	fmt.Fprintf(out, "position: %s\n", p)
	fmt.Fprintf(out, "packed:   %d (0x%08x)\n", p.Packed(), p.Packed())
	fmt.Fprintf(out, "host:     %d (0x%08x)\n", p.HostPacked(), p.HostPacked())
	fmt.Fprintf(out, "world:    %d,%d\n", wx, wy)
}
