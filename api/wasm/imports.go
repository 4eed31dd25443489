//go:build wasm

package wasm

import "unsafe"

//go:wasmimport screeps log_message
func logMessage(level uint32, ptr unsafe.Pointer, length uint32)

//go:wasmimport screeps object_id_to_packed
func objectIDToPacked(strPtr unsafe.Pointer, strLen uint32, outPtr unsafe.Pointer) int32

//go:wasmimport screeps object_id_from_packed
func objectIDFromPacked(inPtr, outPtr unsafe.Pointer) int32

//go:wasmimport screeps object_id_to_string
func objectIDToString(inPtr unsafe.Pointer) int64

//go:wasmimport screeps pos_pack
func posPack(roomX, roomY, x, y int32) int64

//go:wasmimport screeps pos_unpack
func posUnpack(packed uint32, outPtr unsafe.Pointer) int32

//go:wasmimport screeps pos_to_host
func posToHost(packed uint32) int64

//go:wasmimport screeps pos_from_host
func posFromHost(hostPacked uint32) int64

//go:wasmimport screeps pos_step
func posStep(packed, direction uint32) int64

//go:wasmimport screeps pos_range
func posRange(a, b uint32) int32

//go:wasmimport screeps object_track
func objectTrack(idPtr unsafe.Pointer, idLen, packed uint32, kindPtr unsafe.Pointer, kindLen uint32) int32
