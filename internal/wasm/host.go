package wasm

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	abi "github.com/woxQAQ/screeps-go/api/wasm"

	"github.com/woxQAQ/screeps-go/pkg/objectid"
	"github.com/woxQAQ/screeps-go/pkg/position"
)

// HostModuleName is the import module guests use for host functions.
const HostModuleName = abi.HostModule

// Layout of buffers exchanged with guests.
const (
	PackedIDSize    = abi.PackedIDSize
	UnpackedPosSize = abi.UnpackedPosSize
)

// ObjectTracker receives the objects guests report through object_track.
// Implementations must be safe for concurrent use.
type ObjectTracker interface {
	Track(id objectid.RawID, pos position.Position, kind string)
}

// HostFunctions implements host functions for Wasm modules.
type HostFunctions struct {
	logger  *zap.Logger
	debug   bool
	tracker ObjectTracker
}

// NewHostFunctions creates a new host functions implementation. With debug
// set, every failed call is logged.
func NewHostFunctions(logger *zap.Logger, debug bool) *HostFunctions {
	return &HostFunctions{
		logger: logger.With(zap.String("component", "wasm-host")),
		debug:  debug,
	}
}

// WithTracker sets where object_track reports go. Call it before any guest
// is instantiated; without a tracker object_track is accepted and dropped.
func (h *HostFunctions) WithTracker(t ObjectTracker) *HostFunctions {
	h.tracker = t
	return h
}

// logMessage is called by Wasm modules to log messages.
// Signature: log_message(level, ptr, length)
// level: 0 = debug, 1 = info, 2 = warn, 3 = error
// The message ends at length bytes or the first NUL, whichever comes first.
func (h *HostFunctions) logMessage(ctx context.Context, mod api.Module, level uint32, ptr uint32, length uint32) {
	msg, ok := NewMemory(mod).ReadString(ptr, length)
	if !ok {
		h.logger.Error("Failed to read log message from Wasm memory",
			zap.String("module", mod.Name()),
			zap.Uint32("ptr", ptr),
			zap.Uint32("length", length),
		)
		return
	}

	logger := h.logger.With(zap.String("module", mod.Name()))
	switch level {
	case abi.LogDebug:
		logger.Debug(msg)
	case abi.LogWarn:
		logger.Warn(msg)
	case abi.LogError:
		logger.Error(msg)
	default:
		logger.Info(msg)
	}
}

// objectIDToPacked parses the id string at (strPtr, strLen) and writes its
// PackedIDSize-byte form at outPtr. Returns the digit count or -status.
func (h *HostFunctions) objectIDToPacked(ctx context.Context, mod api.Module, strPtr, strLen, outPtr uint32) int32 {
	return h.result(mod, abi.ImportObjectIDToPacked, idToPacked(mod.Memory(), strPtr, strLen, outPtr))
}

// objectIDFromPacked reads PackedIDSize bytes at inPtr and writes the id
// string at outPtr. outPtr must have room for objectid.MaxDigits bytes.
// Returns the string length or -status.
func (h *HostFunctions) objectIDFromPacked(ctx context.Context, mod api.Module, inPtr, outPtr uint32) int32 {
	return h.result(mod, abi.ImportObjectIDFromPacked, idFromPacked(mod.Memory(), inPtr, outPtr))
}

// objectIDToString reads PackedIDSize bytes at inPtr and copies the id
// string into a buffer from the guest's malloc. Returns ptr<<32 | len, or
// -status. The guest owns the buffer.
func (h *HostFunctions) objectIDToString(ctx context.Context, mod api.Module, inPtr uint32) int64 {
	v, err := idToString(ctx, mod.Memory(), NewMemory(mod), inPtr)
	if err != nil {
		status := statusOf(err)
		h.failed(mod, abi.ImportObjectIDToString, status, err)
		return -int64(status)
	}
	return v
}

// posPack returns the packed position or -status.
func (h *HostFunctions) posPack(ctx context.Context, mod api.Module, roomX, roomY, x, y int32) int64 {
	return h.result64(mod, abi.ImportPosPack, posPack(roomX, roomY, x, y))
}

// posUnpack writes four int32s at outPtr. Returns 0 or -status.
func (h *HostFunctions) posUnpack(ctx context.Context, mod api.Module, packed, outPtr uint32) int32 {
	return h.result(mod, abi.ImportPosUnpack, posUnpack(mod.Memory(), packed, outPtr))
}

// posToHost converts a packed position to the game host's bit layout.
func (h *HostFunctions) posToHost(ctx context.Context, mod api.Module, packed uint32) int64 {
	return h.result64(mod, abi.ImportPosToHost, posToHost(packed))
}

// posFromHost converts a game host packed value to a packed position.
func (h *HostFunctions) posFromHost(ctx context.Context, mod api.Module, hostPacked uint32) int64 {
	return h.result64(mod, abi.ImportPosFromHost, posFromHost(hostPacked))
}

// posStep moves a packed position one tile in direction dir.
func (h *HostFunctions) posStep(ctx context.Context, mod api.Module, packed, dir uint32) int64 {
	return h.result64(mod, abi.ImportPosStep, posStep(packed, dir))
}

// posRange returns the Chebyshev distance between two packed positions.
func (h *HostFunctions) posRange(ctx context.Context, mod api.Module, a, b uint32) int32 {
	return h.result(mod, abi.ImportPosRange, posRange(a, b))
}

// objectTrack records an object for the save-state snapshot.
// Returns 0 or -status.
func (h *HostFunctions) objectTrack(ctx context.Context, mod api.Module, idPtr, idLen, packed, kindPtr, kindLen uint32) int32 {
	return h.result(mod, abi.ImportObjectTrack, objectTrack(mod.Memory(), h.tracker, idPtr, idLen, packed, kindPtr, kindLen))
}

func (h *HostFunctions) result(mod api.Module, fn string, v int32) int32 {
	if v < 0 {
		status := Status(-v)
		h.failed(mod, fn, status, errors.New(status.String()))
	}
	return v
}

func (h *HostFunctions) failed(mod api.Module, fn string, status Status, err error) {
	if !h.debug {
		return
	}
	h.logger.Debug("Host function failed",
		zap.String("module", mod.Name()),
		zap.Error(&HostFunctionError{FunctionName: fn, Err: err}),
		zap.Stringer("status", status),
	)
}

func (h *HostFunctions) result64(mod api.Module, fn string, v int64) int64 {
	if v < 0 {
		h.result(mod, fn, int32(v))
	}
	return v
}

// Guest-facing logic, independent of wazero so it can run against any
// memory implementation.

func fail(err error) int32 {
	return -int32(statusOf(err))
}

func readGuest(mem guestMemory, ptr, length uint32) ([]byte, error) {
	if mem != nil {
		if b, ok := mem.Read(ptr, length); ok {
			return b, nil
		}
	}
	return nil, &MemoryAccessError{Operation: "read", Address: ptr, Length: length}
}

func writeGuest(mem guestMemory, ptr uint32, data []byte) error {
	if mem == nil || !mem.Write(ptr, data) {
		return &MemoryAccessError{Operation: "write", Address: ptr, Length: uint32(len(data))}
	}
	return nil
}

func idToPacked(mem guestMemory, strPtr, strLen, outPtr uint32) int32 {
	if strLen > objectid.MaxDigits {
		return -int32(StatusInvalidLength)
	}
	str, err := readGuest(mem, strPtr, strLen)
	if err != nil {
		return fail(err)
	}
	id, err := objectid.Parse(string(str))
	if err != nil {
		return fail(err)
	}
	out, _ := id.MarshalBinary()
	if err := writeGuest(mem, outPtr, out); err != nil {
		return fail(err)
	}
	return int32(id.Len())
}

func idFromPacked(mem guestMemory, inPtr, outPtr uint32) int32 {
	in, err := readGuest(mem, inPtr, PackedIDSize)
	if err != nil {
		return fail(err)
	}
	var id objectid.RawID
	if err := id.UnmarshalBinary(in); err != nil {
		return fail(err)
	}
	s := id.String()
	if err := writeGuest(mem, outPtr, []byte(s)); err != nil {
		return fail(err)
	}
	return int32(len(s))
}

// guestAllocator places host data in guest-owned buffers.
type guestAllocator interface {
	CanAlloc() bool
	AllocString(ctx context.Context, s string) (uint32, error)
}

func idToString(ctx context.Context, mem guestMemory, alloc guestAllocator, inPtr uint32) (int64, error) {
	if !alloc.CanAlloc() {
		return 0, &FunctionNotFoundError{FunctionName: abi.ExportMalloc}
	}
	in, err := readGuest(mem, inPtr, PackedIDSize)
	if err != nil {
		return 0, err
	}
	var id objectid.RawID
	if err := id.UnmarshalBinary(in); err != nil {
		return 0, err
	}
	s := id.String()
	ptr, err := alloc.AllocString(ctx, s)
	if err != nil {
		return 0, err
	}
	return int64(ptr)<<32 | int64(len(s)), nil
}

func objectTrack(mem guestMemory, tracker ObjectTracker, idPtr, idLen, packed, kindPtr, kindLen uint32) int32 {
	if idLen > objectid.MaxDigits || kindLen > abi.MaxKindLen {
		return -int32(StatusInvalidLength)
	}
	str, err := readGuest(mem, idPtr, idLen)
	if err != nil {
		return fail(err)
	}
	id, err := objectid.Parse(string(str))
	if err != nil {
		return fail(err)
	}
	pos, err := position.FromPacked(packed)
	if err != nil {
		return fail(err)
	}
	kind, err := readGuest(mem, kindPtr, kindLen)
	if err != nil {
		return fail(err)
	}
	if tracker != nil {
		tracker.Track(id, pos, string(kind))
	}
	return int32(StatusOK)
}

func posPack(roomX, roomY, x, y int32) int64 {
	packed, err := position.Pack(int(roomX), int(roomY), int(x), int(y))
	if err != nil {
		return int64(fail(err))
	}
	return int64(packed)
}

func posUnpack(mem guestMemory, packed, outPtr uint32) int32 {
	if err := position.Validate(packed); err != nil {
		return fail(err)
	}
	roomX, roomY, x, y := position.Unpack(packed)
	var out [UnpackedPosSize]byte
	binary.LittleEndian.PutUint32(out[0:], uint32(int32(roomX)))
	binary.LittleEndian.PutUint32(out[4:], uint32(int32(roomY)))
	binary.LittleEndian.PutUint32(out[8:], uint32(int32(x)))
	binary.LittleEndian.PutUint32(out[12:], uint32(int32(y)))
	if err := writeGuest(mem, outPtr, out[:]); err != nil {
		return fail(err)
	}
	return int32(StatusOK)
}

func posToHost(packed uint32) int64 {
	p, err := position.FromPacked(packed)
	if err != nil {
		return int64(fail(err))
	}
	return int64(p.HostPacked())
}

func posFromHost(hostPacked uint32) int64 {
	p, err := position.FromHostPacked(hostPacked)
	if err != nil {
		return int64(fail(err))
	}
	return int64(p.Packed())
}

func posStep(packed, dir uint32) int64 {
	p, err := position.FromPacked(packed)
	if err != nil {
		return int64(fail(err))
	}
	d, err := position.ParseDirection(int(dir))
	if err != nil {
		return int64(fail(err))
	}
	next, err := p.Step(d)
	if err != nil {
		return int64(fail(err))
	}
	return int64(next.Packed())
}

func posRange(a, b uint32) int32 {
	pa, err := position.FromPacked(a)
	if err != nil {
		return fail(err)
	}
	pb, err := position.FromPacked(b)
	if err != nil {
		return fail(err)
	}
	return int32(pa.RangeTo(pb))
}
