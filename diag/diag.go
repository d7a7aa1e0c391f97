package diag

import "strings"

// Kind categorizes a link diagnostic.
type Kind string

const (
	KindUndefFunction      Kind = "undef_function"
	KindRedefineFunction   Kind = "redefine_function"
	KindRedefineGlobal     Kind = "redefine_global"
	KindInvalidProfile     Kind = "invalid_profile"
	KindShaderKindMismatch Kind = "shader_kind_mismatch"
	KindNoEntryProps       Kind = "no_entry_props"
	KindRefineResource     Kind = "refine_resource"
	KindOverloadIllegal    Kind = "overload_illegal"
)

// Fixed message prefixes, one per kind.
var prefixes = map[Kind]string{
	KindUndefFunction:      "Cannot find definition of function ",
	KindRedefineFunction:   "Definition already exists for function ",
	KindRedefineGlobal:     "Definition already exists for global variable ",
	KindInvalidProfile:     " is invalid profile to link",
	KindShaderKindMismatch: "Profile mismatch between entry function and target profile: ",
	KindNoEntryProps:       "Cannot find function property for entry function ",
	KindRefineResource:     "Resource already exists as ",
	KindOverloadIllegal:    "Invalid overload type for DXIL operation ",
}

// Diag is one categorized link diagnostic. Ident names the offending
// symbol, profile or resource; Detail carries kind-specific context.
type Diag struct {
	Kind   Kind
	Ident  string
	Detail string
}

// New creates a diagnostic of the given kind for ident.
func New(kind Kind, ident string) *Diag {
	return &Diag{Kind: kind, Ident: ident}
}

// WithDetail attaches kind-specific context and returns the diagnostic.
func (d *Diag) WithDetail(detail string) *Diag {
	d.Detail = detail
	return d
}

func (d *Diag) Error() string {
	var b strings.Builder
	switch d.Kind {
	case KindInvalidProfile:
		// The profile leads for this kind, matching the emitted form
		// "<profile> is invalid profile to link".
		b.WriteString(d.Ident)
		b.WriteString(prefixes[d.Kind])
	case KindShaderKindMismatch:
		b.WriteString(prefixes[d.Kind])
		b.WriteString(d.Ident)
		if d.Detail != "" {
			b.WriteString(" and ")
			b.WriteString(d.Detail)
		}
		return b.String()
	case KindRefineResource:
		b.WriteString(prefixes[d.Kind])
		b.WriteString(d.Detail)
		b.WriteString(" for ")
		b.WriteString(d.Ident)
		return b.String()
	default:
		b.WriteString(prefixes[d.Kind])
		b.WriteString(d.Ident)
	}
	if d.Detail != "" {
		b.WriteString(": ")
		b.WriteString(d.Detail)
	}
	return b.String()
}

// Is matches on Kind, so callers can test categories with errors.Is. When
// the target also sets Ident, the identifiers must be equal as well.
func (d *Diag) Is(target error) bool {
	if t, ok := target.(*Diag); ok {
		return d.Kind == t.Kind && (t.Ident == "" || t.Ident == d.Ident)
	}
	return false
}
