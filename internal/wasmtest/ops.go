package wasmtest

import "math"

const (
	opUnreachable    byte = 0x00
	opIf             byte = 0x04
	opEnd            byte = 0x0b
	opCall           byte = 0x10
	opDrop           byte = 0x1a
	opLocalGet       byte = 0x20
	opGlobalGet      byte = 0x23
	opGlobalSet      byte = 0x24
	opI32Load        byte = 0x28
	opF64Load        byte = 0x2b
	opI32Load8U      byte = 0x2d
	opI32Store       byte = 0x36
	opF64Store       byte = 0x39
	opI32Const       byte = 0x41
	opF64Const       byte = 0x44
	opI32Ne          byte = 0x47
	opI32Add         byte = 0x6a
	opI32Mul         byte = 0x6c
	opF64ConvertI32S byte = 0xb7

	blockEmpty byte = 0x40
)

func leb(v uint32) []byte {
	var w writer
	w.u32(v)
	return w.bytes()
}

func sleb(v int64) []byte {
	var w writer
	w.s64(v)
	return w.bytes()
}

func memarg(align, offset uint32) []byte {
	return append(leb(align), leb(offset)...)
}

func LocalGet(idx uint32) []byte  { return append([]byte{opLocalGet}, leb(idx)...) }
func GlobalGet(idx uint32) []byte { return append([]byte{opGlobalGet}, leb(idx)...) }
func GlobalSet(idx uint32) []byte { return append([]byte{opGlobalSet}, leb(idx)...) }
func Call(idx uint32) []byte      { return append([]byte{opCall}, leb(idx)...) }

func I32Const(v int32) []byte { return append([]byte{opI32Const}, sleb(int64(v))...) }

func F64Const(v float64) []byte {
	bits := math.Float64bits(v)
	out := []byte{opF64Const}
	for i := 0; i < 8; i++ {
		out = append(out, byte(bits>>(8*i)))
	}
	return out
}

func I32Load(offset uint32) []byte   { return append([]byte{opI32Load}, memarg(2, offset)...) }
func I32Load8U(offset uint32) []byte { return append([]byte{opI32Load8U}, memarg(0, offset)...) }
func F64Load(offset uint32) []byte   { return append([]byte{opF64Load}, memarg(3, offset)...) }
func I32Store(offset uint32) []byte  { return append([]byte{opI32Store}, memarg(2, offset)...) }
func F64Store(offset uint32) []byte  { return append([]byte{opF64Store}, memarg(3, offset)...) }

var (
	I32Add         = []byte{opI32Add}
	I32Mul         = []byte{opI32Mul}
	I32Ne          = []byte{opI32Ne}
	F64ConvertI32S = []byte{opF64ConvertI32S}
	Drop           = []byte{opDrop}
	Unreachable    = []byte{opUnreachable}
)

// TrapIf traps when the i32 on top of the stack is non-zero.
func TrapIf() []byte {
	return []byte{opIf, blockEmpty, opUnreachable, opEnd}
}
