//go:build wasm

package wasm

import (
	"encoding/binary"
	"unsafe"
)

func stringPtr(s string) (unsafe.Pointer, uint32) {
	if s == "" {
		return nil, 0
	}
	return unsafe.Pointer(unsafe.StringData(s)), uint32(len(s))
}

// Log writes msg to the host log at the given level.
func Log(level uint32, msg string) {
	ptr, n := stringPtr(msg)
	logMessage(level, ptr, n)
}

// PackID converts an id string to its PackedIDSize-byte form.
func PackID(id string) ([PackedIDSize]byte, error) {
	var out [PackedIDSize]byte
	ptr, n := stringPtr(id)
	if _, err := Result(int64(objectIDToPacked(ptr, n, unsafe.Pointer(&out[0])))); err != nil {
		return out, err
	}
	return out, nil
}

// UnpackID converts a packed id back to its string form.
func UnpackID(packed [PackedIDSize]byte) (string, error) {
	var buf [MaxIDDigits]byte
	n, err := Result(int64(objectIDFromPacked(unsafe.Pointer(&packed[0]), unsafe.Pointer(&buf[0]))))
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

// IDString is UnpackID for guests that export malloc. The host places the
// string in a buffer from that malloc, which the guest then owns.
func IDString(packed [PackedIDSize]byte) (string, error) {
	v := objectIDToString(unsafe.Pointer(&packed[0]))
	if v < 0 {
		return "", StatusError(-v)
	}
	ptr, n := uint32(v>>32), uint32(v)
	return unsafe.String((*byte)(unsafe.Pointer(uintptr(ptr))), n), nil
}

// PackPos packs room and in-room coordinates.
func PackPos(roomX, roomY, x, y int32) (uint32, error) {
	return Result(posPack(roomX, roomY, x, y))
}

// UnpackPos splits a packed position into room and in-room coordinates.
func UnpackPos(packed uint32) (roomX, roomY, x, y int32, err error) {
	var buf [UnpackedPosSize]byte
	if _, err = Result(int64(posUnpack(packed, unsafe.Pointer(&buf[0])))); err != nil {
		return
	}
	roomX = int32(binary.LittleEndian.Uint32(buf[0:]))
	roomY = int32(binary.LittleEndian.Uint32(buf[4:]))
	x = int32(binary.LittleEndian.Uint32(buf[8:]))
	y = int32(binary.LittleEndian.Uint32(buf[12:]))
	return
}

// ToHost converts a packed position to the game engine's __packedPos layout.
func ToHost(packed uint32) (uint32, error) {
	return Result(posToHost(packed))
}

// FromHost converts a game engine __packedPos value to a packed position.
func FromHost(hostPacked uint32) (uint32, error) {
	return Result(posFromHost(hostPacked))
}

// Step moves packed one tile in direction (1..8, clockwise from top).
func Step(packed, direction uint32) (uint32, error) {
	return Result(posStep(packed, direction))
}

// Range returns the tile distance between two packed positions.
func Range(a, b uint32) (uint32, error) {
	return Result(int64(posRange(a, b)))
}

// Track reports an object to the host's memory snapshot.
func Track(id string, packed uint32, kind string) error {
	idPtr, idLen := stringPtr(id)
	kindPtr, kindLen := stringPtr(kind)
	_, err := Result(int64(objectTrack(idPtr, idLen, packed, kindPtr, kindLen)))
	return err
}
