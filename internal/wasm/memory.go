package wasm

import (
	"context"
	"errors"

	"github.com/tetratelabs/wazero/api"
)

// guestMemory is the part of api.Memory the host functions rely on.
type guestMemory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
}

// Memory provides bounds-checked access to a guest's linear memory.
//
// Reads return views into guest memory that are only valid until the guest
// runs again; copy them if they must outlive the call. Writes either land at a
// caller-provided offset or in a buffer obtained from the guest's exported
// malloc.
type Memory struct {
	name   string
	mem    api.Memory
	malloc api.Function
	free   api.Function
}

// NewMemory creates a memory helper.
func NewMemory(module api.Module) *Memory {
	return &Memory{
		name:   module.Name(),
		mem:    module.Memory(),
		malloc: module.ExportedFunction("malloc"),
		free:   module.ExportedFunction("free"),
	}
}

// Size returns the current memory size in bytes, or 0 when the guest has no
// memory.
func (m *Memory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// ReadString reads a null-terminated string from Wasm memory.
func (m *Memory) ReadString(ptr uint32, maxLen uint32) (string, bool) {
	buf, ok := m.ReadBytes(ptr, maxLen)
	if !ok {
		return "", false
	}

	end := len(buf)
	for i, b := range buf {
		if b == 0 {
			end = i
			break
		}
	}

	return string(buf[:end]), true
}

// ReadBytes reads raw bytes from Wasm memory.
func (m *Memory) ReadBytes(ptr uint32, length uint32) ([]byte, bool) {
	if m.mem == nil {
		return nil, false
	}
	return m.mem.Read(ptr, length)
}

// WriteBytes copies data into guest memory at ptr.
func (m *Memory) WriteBytes(ptr uint32, data []byte) error {
	if m.mem == nil || !m.mem.Write(ptr, data) {
		return &MemoryAccessError{
			Operation: "write",
			Address:   ptr,
			Length:    uint32(len(data)),
			Err:       errors.New("out of range"),
		}
	}
	return nil
}

// CanAlloc reports whether the guest exports malloc.
func (m *Memory) CanAlloc() bool {
	return m.malloc != nil
}

// Alloc copies data into a fresh guest buffer obtained from malloc and
// returns its pointer. The caller owns the buffer and releases it with Free.
func (m *Memory) Alloc(ctx context.Context, data []byte) (uint32, error) {
	if m.malloc == nil {
		return 0, &FunctionNotFoundError{ModuleName: m.name, FunctionName: "malloc"}
	}

	results, err := m.malloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, &MemoryAccessError{Operation: "malloc", Length: uint32(len(data)), Err: err}
	}
	ptr := uint32(results[0])
	if ptr == 0 {
		return 0, &MemoryAccessError{Operation: "malloc", Length: uint32(len(data)), Err: errors.New("malloc returned null")}
	}

	if err := m.WriteBytes(ptr, data); err != nil {
		m.Free(ctx, ptr)
		return 0, err
	}
	return ptr, nil
}

// AllocString is Alloc for strings.
func (m *Memory) AllocString(ctx context.Context, s string) (uint32, error) {
	return m.Alloc(ctx, []byte(s))
}

// Free releases a buffer returned by Alloc. It is a no-op for a null pointer
// or a guest without a free export.
func (m *Memory) Free(ctx context.Context, ptr uint32) {
	if ptr != 0 && m.free != nil {
		_, _ = m.free.Call(ctx, uint64(ptr))
	}
}
