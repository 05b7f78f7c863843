package ast

// TypeKind is the ownership mode of a type occurrence. The zero value is
// invalid.
type TypeKind uint8

const (
	ByValue TypeKind = iota + 1
	ByRef
	ByMutRef
)

func (k TypeKind) String() string {
	switch k {
	case ByValue:
		return "by_value"
	case ByRef:
		return "by_ref"
	case ByMutRef:
		return "by_mut_ref"
	default:
		return "invalid"
	}
}

// IsRef reports whether k is a borrow.
func (k TypeKind) IsRef() bool {
	return k == ByRef || k == ByMutRef
}

// TypeLocation is where in a signature a type occurs. The zero value is
// invalid.
type TypeLocation uint8

const (
	ImportArgument TypeLocation = iota + 1
	ImportRet
	ExportArgument
	ExportRet
)

func (l TypeLocation) String() string {
	switch l {
	case ImportArgument:
		return "import_argument"
	case ImportRet:
		return "import_ret"
	case ExportArgument:
		return "export_argument"
	case ExportRet:
		return "export_ret"
	default:
		return "invalid"
	}
}

// Rule selects which of a boundary's descriptors a type occurrence uses.
type Rule uint8

const (
	RuleNone Rule = iota
	RuleValue
	RuleToRef
	RuleFromRef
)

func (r Rule) String() string {
	switch r {
	case RuleValue:
		return "value"
	case RuleToRef:
		return "to_ref"
	case RuleFromRef:
		return "from_ref"
	default:
		return "none"
	}
}

// DescriptorRule returns the resolution rule for a (kind, location) pair,
// or RuleNone when no rule covers it.
func DescriptorRule(kind TypeKind, loc TypeLocation) Rule {
	switch kind {
	case ByValue:
		switch loc {
		case ImportArgument, ImportRet, ExportArgument, ExportRet:
			return RuleValue
		}
	case ByRef, ByMutRef:
		switch loc {
		case ImportArgument, ExportRet:
			return RuleToRef
		case ImportRet, ExportArgument:
			return RuleFromRef
		}
	}
	return RuleNone
}
