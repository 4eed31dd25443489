//go:build wasm

package wasm

// Bots implement these exports with //go:wasmexport. Pointers and lengths are
// uint32 because Wasm linear memory is 32-bit addressed.
//
// //go:wasmexport loop
// func loop(tick uint32)
//
// loop may instead take no parameters. It runs once per game tick.
//
// //go:wasmexport malloc
// func malloc(size uint32) uint32
//
// //go:wasmexport free
// func free(ptr uint32)
//
// malloc and free are optional. Without them the host cannot place data in
// guest memory.
