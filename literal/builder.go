package literal

import (
	"io"
	"strconv"

	"github.com/wippyai/wasm-descriptor/descriptor"
	"github.com/wippyai/wasm-descriptor/errors"
	"github.com/wippyai/wasm-descriptor/internal/alphabet"
)

// Builder appends the byte form of a JSON-like document to a sink and
// counts every byte it emits. Not safe for concurrent use.
type Builder struct {
	dst io.ByteWriter
	cnt int
}

// NewBuilder creates a Builder writing to dst.
func NewBuilder(dst io.ByteWriter) *Builder {
	return &Builder{dst: dst}
}

// Finish returns the number of bytes emitted. Consumers size fixed-length
// storage from it.
func (b *Builder) Finish() int {
	return b.cnt
}

// Byte emits one byte.
func (b *Builder) Byte(v byte) {
	if err := b.dst.WriteByte(v); err != nil {
		panic(errors.Sink(err))
	}
	b.cnt++
}

// Append emits every byte of s.
func (b *Builder) Append(s string) {
	for i := 0; i < len(s); i++ {
		b.Byte(s[i])
	}
}

// Str emits s as a quoted string. No escaping is performed: s must stay
// within the escape-free alphabet, anything else aborts before a byte of
// it is written.
func (b *Builder) Str(s string) {
	if i := alphabet.Unsafe(s); i >= 0 {
		panic(errors.UnsafeString(errors.PhaseEncode, nil, s, i))
	}
	b.Byte('"')
	b.Append(s)
	b.Byte('"')
}

// Bool emits true or false.
func (b *Builder) Bool(v bool) {
	if v {
		b.Append("true")
	} else {
		b.Append("false")
	}
}

// U32 emits v in decimal.
func (b *Builder) U32(v uint32) {
	var buf [10]byte
	for _, c := range strconv.AppendUint(buf[:0], uint64(v), 10) {
		b.Byte(c)
	}
}

// Null emits null.
func (b *Builder) Null() {
	b.Append("null")
}

// OptStr emits s, or null when s is empty.
func (b *Builder) OptStr(s string) {
	if s == "" {
		b.Null()
		return
	}
	b.Str(s)
}

// Descriptor emits the fixed-width form of d: always exactly four bytes.
func (b *Builder) Descriptor(d descriptor.Descriptor) {
	for _, c := range d.Bytes() {
		b.Byte(c)
	}
}

// Field is one key of an object and the callback that encodes its value.
type Field struct {
	Encode func(*Builder)
	Key    string
}

// F is shorthand for a Field literal.
func F(key string, encode func(*Builder)) Field {
	return Field{Key: key, Encode: encode}
}

// Fields emits an object. Keys are written in the order given.
func (b *Builder) Fields(fields ...Field) {
	b.Byte('{')
	for i, f := range fields {
		if i > 0 {
			b.Byte(',')
		}
		b.Str(f.Key)
		b.Byte(':')
		f.Encode(b)
	}
	b.Byte('}')
}

// List emits an array, encoding each item with cb.
func List[T any](b *Builder, items []T, cb func(*Builder, T)) {
	b.Byte('[')
	for i, item := range items {
		if i > 0 {
			b.Byte(',')
		}
		cb(b, item)
	}
	b.Byte(']')
}

// Literal is implemented by values that know how to encode themselves.
type Literal interface {
	Literal(b *Builder)
}

// ListOf emits an array of self-encoding values.
func ListOf[T Literal](b *Builder, items []T) {
	List(b, items, func(b *Builder, item T) { item.Literal(b) })
}
