package query

// Operator is a typed filter operator.
type Operator string

// Filter operators.
const (
	OpEq  Operator = "eq"  // exact match
	OpNeq Operator = "neq" // exact match, negated
	OpIn  Operator = "in"  // substring contains
	OpNin Operator = "nin" // substring contains, negated
	OpSw  Operator = "sw"  // starts with
	OpNsw Operator = "nsw" // starts with, negated
	OpEw  Operator = "ew"  // ends with
	OpNew Operator = "new" // ends with, negated
	OpMa  Operator = "ma"  // regex match (string fields only)
	OpNma Operator = "nma" // regex match, negated

	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpGte Operator = "gte"
	OpGt  Operator = "gt"

	OpYrEq  Operator = "yreq"  // year equality after date truncation
	OpNyrEq Operator = "nyreq" // year equality, negated
	OpYrLt  Operator = "yrlt"
	OpYrLte Operator = "yrlte"
	OpYrGte Operator = "yrgte"
	OpYrGt  Operator = "yrgt"

	OpRes  Operator = "res"  // resource reference (integer fields only)
	OpNres Operator = "nres" // resource reference, negated

	OpEx  Operator = "ex"  // has any value
	OpNex Operator = "nex" // has no value
)

// symbolOperators maps the comparison shorthands onto operators.
var symbolOperators = map[string]Operator{
	"<": OpLt, "≤": OpLte, "<=": OpLte,
	">": OpGt, "≥": OpGte, ">=": OpGte,
	"=": OpEq, "≠": OpNeq, "!=": OpNeq,
}

var knownOperators = map[Operator]bool{
	OpEq: true, OpNeq: true, OpIn: true, OpNin: true,
	OpSw: true, OpNsw: true, OpEw: true, OpNew: true,
	OpMa: true, OpNma: true,
	OpLt: true, OpLte: true, OpGte: true, OpGt: true,
	OpYrEq: true, OpNyrEq: true, OpYrLt: true, OpYrLte: true, OpYrGte: true, OpYrGt: true,
	OpRes: true, OpNres: true, OpEx: true, OpNex: true,
}

// ParseOperator normalizes an operator token, accepting comparison
// symbols as aliases. ok is false for unknown tokens.
func ParseOperator(token string) (Operator, bool) {
	if op, ok := symbolOperators[token]; ok {
		return op, true
	}
	op := Operator(token)
	return op, knownOperators[op]
}

// Negative reports whether the operator is a logical negation.
func (o Operator) Negative() bool {
	switch o {
	case OpNeq, OpNin, OpNsw, OpNew, OpNma, OpNyrEq, OpNres, OpNex:
		return true
	}
	return false
}

// Positive returns the non-negated counterpart of a negative operator,
// or the operator itself.
func (o Operator) Positive() Operator {
	switch o {
	case OpNeq:
		return OpEq
	case OpNin:
		return OpIn
	case OpNsw:
		return OpSw
	case OpNew:
		return OpEw
	case OpNma:
		return OpMa
	case OpNyrEq:
		return OpYrEq
	case OpNres:
		return OpRes
	case OpNex:
		return OpEx
	}
	return o
}

// Joiner combines a condition with the previous one in a filter group.
type Joiner string

// Condition joiners. The first condition of a group ignores its joiner.
const (
	JoinAnd Joiner = "and"
	JoinOr  Joiner = "or"
	JoinNot Joiner = "not"
)
