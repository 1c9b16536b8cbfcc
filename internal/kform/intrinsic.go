package kform

// Intrinsic enumerates the K-form primitives that have no user-level
// function. Modeled as a closed byte-backed enum rather than a
// string, since the set is small and fixed and every consumer
// switches on it exhaustively.
type Intrinsic uint8

const (
	IntrinVariantTag Intrinsic = iota
	IntrinVariantCase
	IntrinListHead
	IntrinListTail
	IntrinStrConcat
	IntrinGetSize
	IntrinCheckIdx
	IntrinPopExn
)

func (i Intrinsic) String() string {
	switch i {
	case IntrinVariantTag:
		return "VARIANT_TAG"
	case IntrinVariantCase:
		return "VARIANT_CASE"
	case IntrinListHead:
		return "LIST_HEAD"
	case IntrinListTail:
		return "LIST_TAIL"
	case IntrinStrConcat:
		return "STR_CONCAT"
	case IntrinGetSize:
		return "GET_SIZE"
	case IntrinCheckIdx:
		return "CHECK_IDX"
	case IntrinPopExn:
		return "POP_EXN"
	default:
		return "INTRIN_?"
	}
}
