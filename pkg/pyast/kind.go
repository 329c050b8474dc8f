package pyast

// NodeKind classifies the type of an AST node.
type NodeKind uint16

// Node kinds for statement-level and expression-level Python elements.
const (
	KindModule NodeKind = iota

	// Statement-level nodes.
	KindFunctionDef
	KindClassDef
	KindFor
	KindWhile
	KindIf
	KindAssign
	KindReturn
	KindImport
	KindExprStmt
	KindPass

	// Expression-level nodes.
	KindName
	KindAttribute
	KindCall
	KindTuple
	KindCompare
	KindStringLit
	KindNumberLit
	KindListLit
	KindDictLit
	KindSetLit

	// Fallback for content the parser does not model structurally.
	KindRaw
)

var kindNames = map[NodeKind]string{
	KindModule:      "Module",
	KindFunctionDef: "FunctionDef",
	KindClassDef:    "ClassDef",
	KindFor:         "For",
	KindWhile:       "While",
	KindIf:          "If",
	KindAssign:      "Assign",
	KindReturn:      "Return",
	KindImport:      "Import",
	KindExprStmt:    "ExprStmt",
	KindPass:        "Pass",
	KindName:        "Name",
	KindAttribute:   "Attribute",
	KindCall:        "Call",
	KindTuple:       "Tuple",
	KindCompare:     "Compare",
	KindStringLit:   "StringLit",
	KindNumberLit:   "NumberLit",
	KindListLit:     "ListLit",
	KindDictLit:     "DictLit",
	KindSetLit:      "SetLit",
	KindRaw:         "Raw",
}

// String returns the kind name without the Kind prefix.
func (k NodeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsStatement returns true for statement-level kinds.
func (k NodeKind) IsStatement() bool {
	switch k {
	case KindModule, KindFunctionDef, KindClassDef, KindFor, KindWhile,
		KindIf, KindAssign, KindReturn, KindImport, KindExprStmt, KindPass:
		return true
	default:
		return false
	}
}

// IsExpression returns true for expression-level kinds.
func (k NodeKind) IsExpression() bool {
	switch k {
	case KindName, KindAttribute, KindCall, KindTuple, KindCompare,
		KindStringLit, KindNumberLit, KindListLit, KindDictLit, KindSetLit:
		return true
	default:
		return false
	}
}
