//go:build cgo

// This file is the only place in the module that imports "C"; it is
// intentionally thin — every decision belongs in parser.go, which is
// plain Go and carries its own tests. This file exists to satisfy the
// distilled spec's FFI function table and cannot itself be exercised by
// `go test` (cgo call conventions aren't reachable from within the Go
// test binary), so it is reviewed by inspection rather than covered.
package ffi

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"runtime/cgo"
	"sync"
	"unsafe"
)

// lastField tracks, per handle, the most recent C string returned by
// get_field so it can be freed on the next parse/destroy rather than
// leaking one allocation per call, per the distilled spec's "lifetime
// tied to next parse" rule for get_field.
var (
	lastFieldMu sync.Mutex
	lastField   = map[C.uintptr_t]*C.char{}
)

func freeLastField(h C.uintptr_t) {
	lastFieldMu.Lock()
	defer lastFieldMu.Unlock()
	if p, ok := lastField[h]; ok {
		C.free(unsafe.Pointer(p))
		delete(lastField, h)
	}
}

func setLastField(h C.uintptr_t, p *C.char) {
	lastFieldMu.Lock()
	defer lastFieldMu.Unlock()
	lastField[h] = p
}

//export parser_create
func parser_create() C.uintptr_t {
	h := NewHandle(NewParser())
	return C.uintptr_t(h)
}

//export parser_destroy
func parser_destroy(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	freeLastField(handle)
	Release(cgo.Handle(handle))
}

//export parse_string
func parse_string(handle C.uintptr_t, data *C.char, length C.int) C.int {
	p := Lookup(cgo.Handle(handle))
	var buf []byte
	if length > 0 {
		buf = C.GoBytes(unsafe.Pointer(data), length)
	}
	if err := p.ParseString(buf); err != nil {
		return -1
	}
	return 0
}

//export get_row_count
func get_row_count(handle C.uintptr_t) C.int {
	p := Lookup(cgo.Handle(handle))
	return C.int(p.RowCount())
}

//export get_field_count
func get_field_count(handle C.uintptr_t, row C.int) C.int {
	p := Lookup(cgo.Handle(handle))
	return C.int(p.FieldCount(int(row)))
}

//export get_field
func get_field(handle C.uintptr_t, row C.int, field C.int) *C.char {
	p := Lookup(cgo.Handle(handle))
	val, ok := p.Field(int(row), int(field))
	if !ok {
		return nil
	}
	cstr := C.CString(val)
	freeLastField(handle)
	setLastField(handle, cstr)
	return cstr
}

//export rows_to_packed_buffer
func rows_to_packed_buffer(handle C.uintptr_t, outSize *C.int) *C.char {
	p := Lookup(cgo.Handle(handle))
	buf, err := p.PackedBuffer()
	if err != nil {
		*outSize = 0
		return nil
	}
	*outSize = C.int(len(buf))
	if len(buf) == 0 {
		return nil
	}
	out := C.CBytes(buf)
	return (*C.char)(out)
}
