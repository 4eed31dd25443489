package wasm

import "context"

// Hand-assembled guest modules used across the package tests.

// emptyModule is a valid Wasm 1.0 module with no sections.
var emptyModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // Magic number: \0asm
	0x01, 0x00, 0x00, 0x00, // Version: 1
}

// memoryModule exports one page of memory as "mem".
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: min 1 page
	0x07, 0x07, 0x01, 0x03, 0x6d, 0x65, 0x6d, 0x02, 0x00, // export "mem"
}

// reactorModule exports "memory", an empty "loop" and a "spin" that never
// returns.
var reactorModule = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type section: () -> ()
	0x03, 0x03, 0x02, 0x00, 0x00, // function section: two funcs of type 0
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: min 1 page
	0x07, 0x18, 0x03, // export section, 3 entries
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00, // "memory"
	0x04, 0x6c, 0x6f, 0x6f, 0x70, 0x00, 0x00, // "loop" -> func 0
	0x04, 0x73, 0x70, 0x69, 0x6e, 0x00, 0x01, // "spin" -> func 1
	0x0a, 0x0c, 0x02, // code section, 2 bodies
	0x02, 0x00, 0x0b, // loop: end
	0x07, 0x00, 0x03, 0x40, 0x0c, 0x00, 0x0b, 0x0b, // spin: loop br 0 end end
}

// packModule imports screeps.pos_pack and re-exports it as "pack".
var packModule = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	0x01, 0x09, 0x01, 0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7e, // (i32 x4) -> i64
	0x02, 0x14, 0x01, // import section, 1 entry
	0x07, 0x73, 0x63, 0x72, 0x65, 0x65, 0x70, 0x73, // "screeps"
	0x08, 0x70, 0x6f, 0x73, 0x5f, 0x70, 0x61, 0x63, 0x6b, // "pos_pack"
	0x00, 0x00, // func, type 0
	0x03, 0x02, 0x01, 0x00, // function section
	0x07, 0x08, 0x01, 0x04, 0x70, 0x61, 0x63, 0x6b, 0x00, 0x01, // export "pack" -> func 1
	0x0a, 0x0e, 0x01, 0x0c, 0x00,
	0x20, 0x00, 0x20, 0x01, 0x20, 0x02, 0x20, 0x03, // local.get 0..3
	0x10, 0x00, // call 0
	0x0b,
}

// allocModule exports "memory", a bump-pointer "malloc" starting at 1024, a
// no-op "free", and "id_string" forwarding to screeps.object_id_to_string.
var allocModule = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	0x01, 0x0f, 0x03, // type section, 3 types
	0x60, 0x01, 0x7f, 0x01, 0x7f, // (i32) -> i32
	0x60, 0x01, 0x7f, 0x00, // (i32) -> ()
	0x60, 0x01, 0x7f, 0x01, 0x7e, // (i32) -> i64
	0x02, 0x1f, 0x01, // import section, 1 entry
	0x07, 0x73, 0x63, 0x72, 0x65, 0x65, 0x70, 0x73, // "screeps"
	0x13, 0x6f, 0x62, 0x6a, 0x65, 0x63, 0x74, 0x5f, 0x69, 0x64, 0x5f, // "object_id_
	0x74, 0x6f, 0x5f, 0x73, 0x74, 0x72, 0x69, 0x6e, 0x67, // to_string"
	0x00, 0x02, // func, type 2
	0x03, 0x04, 0x03, 0x00, 0x01, 0x02, // function section
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: min 1 page
	0x06, 0x07, 0x01, 0x7f, 0x01, 0x41, 0x80, 0x08, 0x0b, // global: mut i32 = 1024
	0x07, 0x26, 0x04, // export section, 4 entries
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00, // "memory"
	0x06, 0x6d, 0x61, 0x6c, 0x6c, 0x6f, 0x63, 0x00, 0x01, // "malloc" -> func 1
	0x04, 0x66, 0x72, 0x65, 0x65, 0x00, 0x02, // "free" -> func 2
	0x09, 0x69, 0x64, 0x5f, 0x73, 0x74, 0x72, 0x69, 0x6e, 0x67, 0x00, 0x03, // "id_string" -> func 3
	0x0a, 0x17, 0x03, // code section, 3 bodies
	0x0b, 0x00, 0x23, 0x00, 0x23, 0x00, 0x20, 0x00, 0x6a, 0x24, 0x00, 0x0b, // malloc: old top, top += n
	0x02, 0x00, 0x0b, // free: end
	0x06, 0x00, 0x20, 0x00, 0x10, 0x00, 0x0b, // id_string: local.get 0 call 0
}

// sliceMemory is an in-process guestMemory.
type sliceMemory []byte

func (m sliceMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	if uint64(offset)+uint64(byteCount) > uint64(len(m)) {
		return nil, false
	}
	return m[offset : offset+byteCount], true
}

func (m sliceMemory) Write(offset uint32, v []byte) bool {
	if uint64(offset)+uint64(len(v)) > uint64(len(m)) {
		return false
	}
	copy(m[offset:], v)
	return true
}

// bumpAllocator is an in-process guestAllocator over a sliceMemory.
type bumpAllocator struct {
	mem  sliceMemory
	next uint32
	err  error
}

func (a *bumpAllocator) CanAlloc() bool { return a.mem != nil }

func (a *bumpAllocator) AllocString(_ context.Context, s string) (uint32, error) {
	if a.err != nil {
		return 0, a.err
	}
	ptr := a.next
	if !a.mem.Write(ptr, []byte(s)) {
		return 0, &MemoryAccessError{Operation: "write", Address: ptr, Length: uint32(len(s))}
	}
	a.next += uint32(len(s))
	return ptr, nil
}
