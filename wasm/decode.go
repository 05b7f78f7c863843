package wasm

import (
	"errors"
	"fmt"

	"github.com/wippyai/wasm-descriptor/wasm/internal/binary"
)

// Parsing errors returned by ParseModule.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
)

// ParseModule splits a binary module into its sections. Section contents
// other than custom section names are not decoded.
func ParseModule(data []byte) (*Module, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != Version {
		return nil, ErrInvalidVersion
	}

	m := &Module{}
	var lastOrder int

	for r.Len() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return nil, r.WrapError("section header", err)
		}

		if id != SectionCustom {
			order := sectionOrder(id)
			if order == 0 {
				return nil, r.WrapError("section header", fmt.Errorf("unknown section ID: 0x%02x", id))
			}
			if order <= lastOrder {
				return nil, fmt.Errorf("%s section appears out of order", SectionName(id))
			}
			lastOrder = order
		}

		size, err := r.ReadU32()
		if err != nil {
			return nil, r.WrapError("section size", err)
		}
		payload, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, r.WrapError(SectionName(id)+" section", err)
		}

		sec := Section{ID: id, Data: payload}
		if id == SectionCustom {
			if sec, err = parseCustomSection(payload); err != nil {
				return nil, fmt.Errorf("custom section: %w", err)
			}
		}
		m.Sections = append(m.Sections, sec)
	}

	return m, nil
}

func parseCustomSection(payload []byte) (Section, error) {
	r := binary.NewReader(payload)
	name, err := r.ReadName()
	if err != nil {
		return Section{}, r.WrapError("name", err)
	}
	rest, err := r.ReadRemaining()
	if err != nil {
		return Section{}, err
	}
	return Section{ID: SectionCustom, Name: name, Data: rest}, nil
}
