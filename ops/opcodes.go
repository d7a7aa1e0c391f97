package ops

import "github.com/dxctools/dxlink/ir"

// OpCode identifies one DXIL operation.
type OpCode uint32

const (
	OpSin OpCode = iota
	OpCos
	OpTan
	OpExp
	OpLog
	OpSqrt
	OpRsqrt
	OpFrc
	OpRoundNE
	OpFAbs
	OpSaturate
	OpFMax
	OpFMin
	OpIMax
	OpIMin
	OpUMax
	OpUMin
	OpFMad
	OpIMad
	OpDot2
	OpDot3
	OpDot4
	OpCreateHandle
	OpCBufferLoadLegacy
	OpSample
	OpSampleLevel
	OpBufferLoad
	OpBufferStore
	OpGetDimensions
	OpThreadID
	OpGroupID
	OpThreadIDInGroup
	OpFlattenedThreadIDInGroup
	OpBarrier
	OpDiscard

	NumOpCodes
)

// OpCodeClass groups op codes that share one implementing function per
// overload.
type OpCodeClass uint32

const (
	OCUnary OpCodeClass = iota
	OCBinary
	OCTertiary
	OCDot2
	OCDot3
	OCDot4
	OCCreateHandle
	OCCBufferLoadLegacy
	OCSample
	OCSampleLevel
	OCBufferLoad
	OCBufferStore
	OCGetDimensions
	OCThreadID
	OCGroupID
	OCThreadIDInGroup
	OCFlattenedThreadIDInGroup
	OCBarrier
	OCDiscard

	NumOpClasses
)

// NumTypeOverloads is the number of overload slots:
// void, f16, f32, f64, i1, i8, i16, i32, i64.
const NumTypeOverloads = 9

// funcAttr is the memory attribute a DXIL operation's function carries.
type funcAttr uint8

const (
	attrNone funcAttr = iota
	attrReadNone
	attrReadOnly
	attrNoDuplicate
	attrNoReturn
)

// overload is a shorthand for building legality bitmaps.
// Index: 0=void 1=f16 2=f32 3=f64 4=i1 5=i8 6=i16 7=i32 8=i64.
type overload [NumTypeOverloads]bool

var (
	ovVoid   = overload{0: true}
	ovFloats = overload{1: true, 2: true, 3: true}
	ovHF     = overload{1: true, 2: true}
	ovInts   = overload{6: true, 7: true, 8: true}
	ovI32    = overload{7: true}
	ovLoad   = overload{1: true, 2: true, 6: true, 7: true}
	ovCBuf   = overload{1: true, 2: true, 3: true, 6: true, 7: true, 8: true}
)

type opCodeProperty struct {
	opCode    OpCode
	name      string
	class     OpCodeClass
	className string
	allowed   overload
	attr      funcAttr
}

// opCodeProps is indexed by op code; CheckOpCodeTable guards the invariant.
var opCodeProps = [NumOpCodes]opCodeProperty{
	{OpSin, "Sin", OCUnary, "unary", ovFloats, attrReadNone},
	{OpCos, "Cos", OCUnary, "unary", ovFloats, attrReadNone},
	{OpTan, "Tan", OCUnary, "unary", ovFloats, attrReadNone},
	{OpExp, "Exp", OCUnary, "unary", ovFloats, attrReadNone},
	{OpLog, "Log", OCUnary, "unary", ovFloats, attrReadNone},
	{OpSqrt, "Sqrt", OCUnary, "unary", ovFloats, attrReadNone},
	{OpRsqrt, "Rsqrt", OCUnary, "unary", ovFloats, attrReadNone},
	{OpFrc, "Frc", OCUnary, "unary", ovFloats, attrReadNone},
	{OpRoundNE, "Round_ne", OCUnary, "unary", ovFloats, attrReadNone},
	{OpFAbs, "FAbs", OCUnary, "unary", ovFloats, attrReadNone},
	{OpSaturate, "Saturate", OCUnary, "unary", ovFloats, attrReadNone},
	{OpFMax, "FMax", OCBinary, "binary", ovFloats, attrReadNone},
	{OpFMin, "FMin", OCBinary, "binary", ovFloats, attrReadNone},
	{OpIMax, "IMax", OCBinary, "binary", ovInts, attrReadNone},
	{OpIMin, "IMin", OCBinary, "binary", ovInts, attrReadNone},
	{OpUMax, "UMax", OCBinary, "binary", ovInts, attrReadNone},
	{OpUMin, "UMin", OCBinary, "binary", ovInts, attrReadNone},
	{OpFMad, "FMad", OCTertiary, "tertiary", ovFloats, attrReadNone},
	{OpIMad, "IMad", OCTertiary, "tertiary", ovInts, attrReadNone},
	{OpDot2, "Dot2", OCDot2, "dot2", ovHF, attrReadNone},
	{OpDot3, "Dot3", OCDot3, "dot3", ovHF, attrReadNone},
	{OpDot4, "Dot4", OCDot4, "dot4", ovHF, attrReadNone},
	{OpCreateHandle, "CreateHandle", OCCreateHandle, "createHandle", ovVoid, attrReadOnly},
	{OpCBufferLoadLegacy, "CBufferLoadLegacy", OCCBufferLoadLegacy, "cbufferLoadLegacy", ovCBuf, attrReadOnly},
	{OpSample, "Sample", OCSample, "sample", ovHF, attrReadOnly},
	{OpSampleLevel, "SampleLevel", OCSampleLevel, "sampleLevel", ovHF, attrReadOnly},
	{OpBufferLoad, "BufferLoad", OCBufferLoad, "bufferLoad", ovLoad, attrReadOnly},
	{OpBufferStore, "BufferStore", OCBufferStore, "bufferStore", ovLoad, attrNone},
	{OpGetDimensions, "GetDimensions", OCGetDimensions, "getDimensions", ovVoid, attrReadOnly},
	{OpThreadID, "ThreadId", OCThreadID, "threadId", ovI32, attrReadNone},
	{OpGroupID, "GroupId", OCGroupID, "groupId", ovI32, attrReadNone},
	{OpThreadIDInGroup, "ThreadIdInGroup", OCThreadIDInGroup, "threadIdInGroup", ovI32, attrReadNone},
	{OpFlattenedThreadIDInGroup, "FlattenedThreadIdInGroup", OCFlattenedThreadIDInGroup, "flattenedThreadIdInGroup", ovI32, attrReadNone},
	{OpBarrier, "Barrier", OCBarrier, "barrier", ovVoid, attrNoDuplicate},
	{OpDiscard, "Discard", OCDiscard, "discard", ovVoid, attrNone},
}

// namePrefix is the prefix shared by every DXIL operation function.
const namePrefix = "dx.op."

var overloadTypeNames = [NumTypeOverloads]string{
	"", "f16", "f32", "f64", "i1", "i8", "i16", "i32", "i64",
}

// classToName caches class -> class name; built from the props table.
var classToName = func() [NumOpClasses]string {
	var out [NumOpClasses]string
	for i := range opCodeProps {
		out[opCodeProps[i].class] = opCodeProps[i].className
	}
	return out
}()

// OpCodeName returns the operation's name, e.g. "Sin".
func OpCodeName(op OpCode) string { return opCodeProps[op].name }

// GetOpCodeClass returns the class of an op code.
func GetOpCodeClass(op OpCode) OpCodeClass { return opCodeProps[op].class }

// OpCodeClassName returns the class name used in function mangling.
func OpCodeClassName(op OpCode) string { return opCodeProps[op].className }

// CheckOpCodeTable verifies that the static table index equals the enum
// value for every op code. A design-time guard against table drift.
func CheckOpCodeTable() bool {
	for i := range opCodeProps {
		if opCodeProps[i].opCode != OpCode(i) {
			return false
		}
	}
	return true
}

// GetTypeSlot maps an IR type to its overload slot, or -1 when the type is
// not overloadable.
func GetTypeSlot(t *ir.Type) int {
	switch t.Kind() {
	case ir.VoidTypeKind:
		return 0
	case ir.FloatTypeKind:
		switch t.Bits() {
		case 16:
			return 1
		case 32:
			return 2
		case 64:
			return 3
		}
	case ir.IntTypeKind:
		switch t.Bits() {
		case 1:
			return 4
		case 8:
			return 5
		case 16:
			return 6
		case 32:
			return 7
		case 64:
			return 8
		}
	}
	return -1
}

// GetOverloadTypeName returns the mangled name of an overload slot; the void
// slot has no suffix.
func GetOverloadTypeName(slot int) string { return overloadTypeNames[slot] }

// IsOverloadLegal reports whether the op code allows the overload type.
func IsOverloadLegal(op OpCode, t *ir.Type) bool {
	slot := GetTypeSlot(t)
	if slot < 0 {
		return false
	}
	return opCodeProps[op].allowed[slot]
}

// ConstructOverloadName mangles the function name for an op specialized to
// the given type: "dx.op.<class>[.<overload>]".
func ConstructOverloadName(op OpCode, t *ir.Type) string {
	slot := GetTypeSlot(t)
	if slot <= 0 {
		return namePrefix + opCodeProps[op].className
	}
	return namePrefix + opCodeProps[op].className + "." + overloadTypeNames[slot]
}
