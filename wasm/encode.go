package wasm

import (
	"github.com/wippyai/wasm-descriptor/wasm/internal/binary"
)

// Encode encodes the module to binary format. Sections are written in
// the order they are held.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()

	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	for _, s := range m.Sections {
		if s.IsCustom() {
			sec := binary.NewWriter()
			sec.WriteName(s.Name)
			sec.WriteBytes(s.Data)
			writeSection(w, SectionCustom, sec.Bytes())
			continue
		}
		writeSection(w, s.ID, s.Data)
	}

	return w.Bytes()
}

// Size returns the encoded size of the section including its header.
func (s *Section) Size() int {
	n := len(s.Data)
	if s.IsCustom() {
		n += binary.SizeU32(uint32(len(s.Name))) + len(s.Name)
	}
	return 1 + binary.SizeU32(uint32(n)) + n
}

func writeSection(w *binary.Writer, id byte, data []byte) {
	w.Byte(id)
	w.WriteU32(uint32(len(data)))
	w.WriteBytes(data)
}
