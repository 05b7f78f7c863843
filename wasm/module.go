package wasm

// Module is a binary module held as its raw sections. Non-custom sections
// are kept byte for byte; only custom sections are interpreted.
type Module struct {
	Sections []Section
}

// Section is one section of a module. Name is set only for custom
// sections, in which case Data is the payload following the name.
type Section struct {
	Name string
	Data []byte
	ID   byte
}

// IsCustom reports whether s is a custom section.
func (s *Section) IsCustom() bool {
	return s.ID == SectionCustom
}

// CustomSection returns the payload of the first custom section called name.
func (m *Module) CustomSection(name string) ([]byte, bool) {
	for i := range m.Sections {
		if s := &m.Sections[i]; s.IsCustom() && s.Name == name {
			return s.Data, true
		}
	}
	return nil, false
}

// CustomSections returns every custom section in module order.
func (m *Module) CustomSections() []Section {
	var out []Section
	for _, s := range m.Sections {
		if s.IsCustom() {
			out = append(out, s)
		}
	}
	return out
}

// SetCustomSection stores data under name. The first existing section of
// that name is replaced in place and any duplicates are dropped; otherwise
// the section is appended at the end of the module.
func (m *Module) SetCustomSection(name string, data []byte) {
	kept := m.Sections[:0]
	replaced := false
	for _, s := range m.Sections {
		if s.IsCustom() && s.Name == name {
			if replaced {
				continue
			}
			s.Data = data
			replaced = true
		}
		kept = append(kept, s)
	}
	m.Sections = kept
	if !replaced {
		m.Sections = append(m.Sections, Section{ID: SectionCustom, Name: name, Data: data})
	}
}

// RemoveCustomSection drops every custom section called name and returns
// how many were removed.
func (m *Module) RemoveCustomSection(name string) int {
	kept := m.Sections[:0]
	n := 0
	for _, s := range m.Sections {
		if s.IsCustom() && s.Name == name {
			n++
			continue
		}
		kept = append(kept, s)
	}
	m.Sections = kept
	return n
}
