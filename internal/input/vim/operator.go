package vim

// Operator names.
const (
	OpDelete      = "delete"
	OpYank        = "yank"
	OpChange      = "change"
	OpIndentRight = "indentRight"
	OpIndentLeft  = "indentLeft"
	OpToggleCase  = "toggleCase"
	OpLowerCase   = "lowerCase"
	OpUpperCase   = "upperCase"
)

// Operator is a grammar entry for an operator key.
type Operator struct {
	// Name is the operator identifier resolved by the operator library.
	Name string

	// Keys is the key sequence that triggers this operator ("d", "g~").
	Keys string

	// Double is the key that repeats the operator for linewise use
	// ('d' for "dd", '~' for "g~~").
	Double rune
}

var operators = map[rune]*Operator{
	'd': {Name: OpDelete, Keys: "d", Double: 'd'},
	'y': {Name: OpYank, Keys: "y", Double: 'y'},
	'c': {Name: OpChange, Keys: "c", Double: 'c'},
	'>': {Name: OpIndentRight, Keys: ">", Double: '>'},
	'<': {Name: OpIndentLeft, Keys: "<", Double: '<'},
}

var gOperators = map[rune]*Operator{
	'~': {Name: OpToggleCase, Keys: "g~", Double: '~'},
	'u': {Name: OpLowerCase, Keys: "gu", Double: 'u'},
	'U': {Name: OpUpperCase, Keys: "gU", Double: 'U'},
}

// GetOperator returns the operator for a single key, or nil.
func GetOperator(r rune) *Operator {
	return operators[r]
}

// GetGOperator returns the operator for g followed by r, or nil.
func GetGOperator(r rune) *Operator {
	return gOperators[r]
}

// LookupOperator returns the operator with the given name, or nil.
func LookupOperator(name string) *Operator {
	for _, table := range []map[rune]*Operator{operators, gOperators} {
		for _, op := range table {
			if op.Name == name {
				return op
			}
		}
	}
	return nil
}

// RegisterOperator adds an operator bound to a single key. It lets hosts
// extend the grammar; the operator library must know the name.
func RegisterOperator(r rune, op *Operator) {
	if op.Double == 0 {
		op.Double = r
	}
	if op.Keys == "" {
		op.Keys = string(r)
	}
	operators[r] = op
}
