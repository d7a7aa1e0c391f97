package dxil

// SignatureElement describes one packed element of an entry signature.
type SignatureElement struct {
	Name          string
	SemanticIndex uint32
	Rows          uint8
	Cols          uint8
	StartRow      int32
	StartCol      int8
}

// EntrySignature is the packed input/output layout of a shader entry.
type EntrySignature struct {
	Input       []SignatureElement
	Output      []SignatureElement
	PatchConst  []SignatureElement
	ViewIDState []uint32
}

// Clone returns a deep copy of the signature.
func (s *EntrySignature) Clone() *EntrySignature {
	return &EntrySignature{
		Input:       append([]SignatureElement(nil), s.Input...),
		Output:      append([]SignatureElement(nil), s.Output...),
		PatchConst:  append([]SignatureElement(nil), s.PatchConst...),
		ViewIDState: append([]uint32(nil), s.ViewIDState...),
	}
}
