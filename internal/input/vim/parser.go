package vim

import (
	"github.com/dshills/vimcore/internal/input/key"
)

// ParseStatus indicates the result of parsing a key event.
type ParseStatus uint8

const (
	// StatusPending indicates more input is needed.
	StatusPending ParseStatus = iota

	// StatusComplete indicates a complete command was parsed.
	StatusComplete

	// StatusInvalid indicates no extension of the keys can be valid.
	StatusInvalid
)

// String returns a string representation of the status.
func (s ParseStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusComplete:
		return "complete"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ParseState represents the current state of the parser.
type ParseState uint8

const (
	// StateInitial is waiting for initial input (possibly after a register).
	StateInitial ParseState = iota

	// StateCount is accumulating a count prefix.
	StateCount

	// StateRegister is waiting for a register name after ".
	StateRegister

	// StateOperator has received an operator, waiting for a target.
	StateOperator

	// StateOperatorCount is accumulating a count after the operator.
	StateOperatorCount

	// StateGPrefix has received 'g', waiting for the second key.
	StateGPrefix

	// StateTextObjectPrefix has received 'i' or 'a', waiting for an object.
	StateTextObjectPrefix

	// StateCharSearch has received f/F/t/T, waiting for the character.
	StateCharSearch

	// StateReplaceChar has received 'r', waiting for the replacement.
	StateReplaceChar
)

// String returns a string representation of the state.
func (s ParseState) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateCount:
		return "count"
	case StateRegister:
		return "register"
	case StateOperator:
		return "operator"
	case StateOperatorCount:
		return "operatorCount"
	case StateGPrefix:
		return "gPrefix"
	case StateTextObjectPrefix:
		return "textObjectPrefix"
	case StateCharSearch:
		return "charSearch"
	case StateReplaceChar:
		return "replaceChar"
	default:
		return "unknown"
	}
}

// CommandKind tells the dispatcher how to run a Command.
type CommandKind uint8

const (
	// KindMotion moves the cursor (or extends the visual selection).
	KindMotion CommandKind = iota

	// KindOperator applies an operator to a motion, text object, count lines
	// or the visual selection.
	KindOperator

	// KindTextObject selects a text object in visual mode.
	KindTextObject

	// KindSpecial runs a special command.
	KindSpecial
)

// String returns the kind name.
func (k CommandKind) String() string {
	switch k {
	case KindMotion:
		return "motion"
	case KindOperator:
		return "operator"
	case KindTextObject:
		return "textObject"
	case KindSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Command represents a parsed command.
type Command struct {
	// Kind selects how the command runs.
	Kind CommandKind

	// Count is the combined count (0 means none was typed).
	Count int

	// Register is the selected register (0 means default).
	Register rune

	// Operator is the operator, if any.
	Operator *Operator

	// Motion is the motion, if any.
	Motion *Motion

	// TextObject is the text object key, if any.
	TextObject rune

	// Inner is set for 'i' text objects.
	Inner bool

	// Linewise is set for doubled operators (dd, yy) and linewise shorthands.
	Linewise bool

	// Special is the special command for KindSpecial.
	Special Special

	// Char is the argument of f/F/t/T or r. Enter and Tab arrive as "\n" and "\t".
	Char string

	// Keys are the key events that make up the command.
	Keys []key.Event
}

// GetCount returns the effective count (1 if none specified).
func (c *Command) GetCount() int {
	if c.Count <= 0 {
		return 1
	}
	return c.Count
}

// HasCount reports whether a count was typed.
func (c *Command) HasCount() bool {
	return c.Count > 0
}

// OnSelection reports whether the command is an operator acting on the
// visual selection.
func (c *Command) OnSelection() bool {
	return c.Kind == KindOperator && c.Motion == nil && c.TextObject == 0 && !c.Linewise
}

// String returns the command keys in Vim notation.
func (c *Command) String() string {
	return key.Format(c.Keys)
}

// ParseResult contains the result of parsing a key event.
type ParseResult struct {
	// Status indicates the parse result.
	Status ParseStatus

	// Command is the parsed command (if Status == StatusComplete).
	Command *Command

	// PendingDisplay shows the pending keys (for a status line).
	PendingDisplay string
}

// Parser folds key events into commands one key at a time.
type Parser struct {
	state  ParseState
	visual bool

	count1     CountState       // Pre-operator count
	count2     CountState       // Post-operator count
	register   rune             // Selected register
	operator   *Operator        // Pending operator
	prefix     TextObjectPrefix // 'i' or 'a' for text objects
	charMotion *Motion          // f/F/t/T waiting for a character

	keys []key.Event
}

// NewParser creates a new command parser in normal-mode grammar.
func NewParser() *Parser {
	return &Parser{keys: make([]key.Event, 0, 8)}
}

// SetVisual switches between normal-mode and visual-mode grammar.
// Switching resets any pending input.
func (p *Parser) SetVisual(visual bool) {
	p.visual = visual
	p.Reset()
}

// Visual reports whether the visual-mode grammar is active.
func (p *Parser) Visual() bool {
	return p.visual
}

// Reset clears all pending input.
func (p *Parser) Reset() {
	p.state = StateInitial
	p.count1.Reset()
	p.count2.Reset()
	p.register = 0
	p.operator = nil
	p.prefix = PrefixNone
	p.charMotion = nil
	p.keys = p.keys[:0]
}

// State returns the current parser state.
func (p *Parser) State() ParseState {
	return p.state
}

// Keys returns a copy of the pending keys.
func (p *Parser) Keys() []key.Event {
	out := make([]key.Event, len(p.keys))
	copy(out, p.keys)
	return out
}

// PendingKeys returns the pending keys in Vim notation.
func (p *Parser) PendingKeys() string {
	return key.Format(p.keys)
}

// Feed processes one key event.
// On Complete or Invalid the parser resets itself.
func (p *Parser) Feed(ev key.Event) ParseResult {
	p.keys = append(p.keys, ev)

	switch p.state {
	case StateCharSearch:
		return p.parseCharSearch(ev)
	case StateReplaceChar:
		return p.parseReplaceChar(ev)
	}

	if ev.IsCtrlKey('r') && !p.visual && p.operator == nil &&
		(p.state == StateInitial || p.state == StateCount) {
		return p.completeSpecial(SpecialRedo)
	}

	if !ev.IsRune() || ev.IsModified() {
		if m := motionForEvent(ev); m != nil && p.acceptsMotion() {
			return p.completeMotion(m)
		}
		return p.invalid()
	}

	r := ev.Rune
	switch p.state {
	case StateInitial, StateCount:
		return p.parseInitial(r)
	case StateRegister:
		return p.parseRegister(r)
	case StateOperator, StateOperatorCount:
		return p.parseOperator(r)
	case StateGPrefix:
		return p.parseGPrefix(r)
	case StateTextObjectPrefix:
		return p.parseTextObject(r)
	default:
		return p.invalid()
	}
}

// ParseKeys classifies a whole key buffer. It is Pending when the keys are
// a proper prefix of a command (including the empty buffer), Complete when
// they form exactly one command, and Invalid otherwise.
func ParseKeys(keys []key.Event, visual bool) ParseResult {
	p := NewParser()
	p.SetVisual(visual)
	res := ParseResult{Status: StatusPending}
	for i, ev := range keys {
		res = p.Feed(ev)
		if res.Status != StatusPending && i < len(keys)-1 {
			return ParseResult{Status: StatusInvalid}
		}
	}
	return res
}

func (p *Parser) acceptsMotion() bool {
	switch p.state {
	case StateInitial, StateCount, StateOperator, StateOperatorCount:
		return true
	}
	return false
}

// parseInitial handles input before any operator.
func (p *Parser) parseInitial(r rune) ParseResult {
	if p.state == StateCount && IsCountDigit(r) {
		p.count1.AccumulateDigit(r)
		return p.pending()
	}
	if p.state == StateInitial && IsCountStart(r) && !p.count1.Active {
		p.state = StateCount
		p.count1.AccumulateDigit(r)
		return p.pending()
	}

	if r == '"' {
		if p.register != 0 {
			return p.invalid()
		}
		p.state = StateRegister
		return p.pending()
	}

	if r == 'g' {
		p.state = StateGPrefix
		return p.pending()
	}

	if op := GetOperator(r); op != nil {
		if p.visual {
			return p.completeVisualOperator(op, false)
		}
		p.operator = op
		p.state = StateOperator
		return p.pending()
	}

	if sh, ok := p.shorthands()[r]; ok {
		return p.completeShorthand(sh)
	}

	if r == 'r' {
		p.state = StateReplaceChar
		return p.pending()
	}

	if p.visual {
		if prefix := GetTextObjectPrefix(r); prefix != PrefixNone {
			p.prefix = prefix
			p.state = StateTextObjectPrefix
			return p.pending()
		}
		if sp, ok := visualSpecials[r]; ok {
			return p.completeSpecial(sp)
		}
	} else if sp, ok := normalSpecials[r]; ok {
		return p.completeSpecial(sp)
	}

	if m := GetMotion(r); m != nil {
		if m.NeedsChar {
			p.charMotion = m
			p.state = StateCharSearch
			return p.pending()
		}
		return p.completeMotion(m)
	}

	return p.invalid()
}

// parseRegister handles input after ".
func (p *Parser) parseRegister(r rune) ParseResult {
	if !IsValidRegister(r) {
		return p.invalid()
	}
	p.register = r
	p.state = StateInitial
	return p.pending()
}

// parseOperator handles input after an operator key.
func (p *Parser) parseOperator(r rune) ParseResult {
	if p.state == StateOperatorCount && IsCountDigit(r) {
		p.count2.AccumulateDigit(r)
		return p.pending()
	}
	if p.state == StateOperator && IsCountStart(r) {
		p.state = StateOperatorCount
		p.count2.AccumulateDigit(r)
		return p.pending()
	}

	if r == p.operator.Double {
		return p.completeLinewise()
	}

	if r == 'g' {
		p.state = StateGPrefix
		return p.pending()
	}

	if prefix := GetTextObjectPrefix(r); prefix != PrefixNone {
		p.prefix = prefix
		p.state = StateTextObjectPrefix
		return p.pending()
	}

	if m := GetMotion(r); m != nil {
		if m.NeedsChar {
			p.charMotion = m
			p.state = StateCharSearch
			return p.pending()
		}
		return p.completeMotion(m)
	}

	return p.invalid()
}

// parseGPrefix handles input after 'g'.
func (p *Parser) parseGPrefix(r rune) ParseResult {
	if op := GetGOperator(r); op != nil {
		switch {
		case p.operator == op:
			// gugu, gUgU, g~g~
			return p.completeLinewise()
		case p.operator != nil:
			return p.invalid()
		case p.visual:
			return p.completeVisualOperator(op, false)
		}
		p.operator = op
		p.state = StateOperator
		return p.pending()
	}

	if m := GetGMotion(r); m != nil {
		return p.completeMotion(m)
	}

	return p.invalid()
}

// parseTextObject handles input after 'i' or 'a'.
func (p *Parser) parseTextObject(r rune) ParseResult {
	if !IsTextObjectKey(r) {
		return p.invalid()
	}
	cmd := p.buildBaseCommand()
	cmd.TextObject = r
	cmd.Inner = p.prefix == PrefixInner
	if p.operator != nil {
		cmd.Kind = KindOperator
		cmd.Operator = p.operator
	} else {
		cmd.Kind = KindTextObject
	}
	return p.complete(cmd)
}

// parseCharSearch handles the character after f/F/t/T.
func (p *Parser) parseCharSearch(ev key.Event) ParseResult {
	var ch string
	switch {
	case ev.IsChar():
		ch = string(ev.Rune)
	case ev.IsTab():
		ch = "\t"
	default:
		return p.invalid()
	}
	cmd := p.buildBaseCommand()
	cmd.Motion = p.charMotion
	cmd.Char = ch
	if p.operator != nil {
		cmd.Kind = KindOperator
		cmd.Operator = p.operator
	}
	return p.complete(cmd)
}

// parseReplaceChar handles the character after r. Escape cancels.
func (p *Parser) parseReplaceChar(ev key.Event) ParseResult {
	ch := ev.Text()
	if ch == "" {
		return p.invalid()
	}
	cmd := p.buildBaseCommand()
	cmd.Kind = KindSpecial
	cmd.Special = SpecialReplace
	cmd.Char = ch
	return p.complete(cmd)
}

func (p *Parser) shorthands() map[rune]shorthand {
	if p.visual {
		return visualShorthands
	}
	return normalShorthands
}

func (p *Parser) completeMotion(m *Motion) ParseResult {
	cmd := p.buildBaseCommand()
	cmd.Motion = m
	if p.operator != nil {
		cmd.Kind = KindOperator
		cmd.Operator = p.operator
	}
	return p.complete(cmd)
}

func (p *Parser) completeLinewise() ParseResult {
	cmd := p.buildBaseCommand()
	cmd.Kind = KindOperator
	cmd.Operator = p.operator
	cmd.Linewise = true
	return p.complete(cmd)
}

func (p *Parser) completeVisualOperator(op *Operator, linewise bool) ParseResult {
	cmd := p.buildBaseCommand()
	cmd.Kind = KindOperator
	cmd.Operator = op
	cmd.Linewise = linewise
	return p.complete(cmd)
}

func (p *Parser) completeShorthand(sh shorthand) ParseResult {
	op := sh.operator()
	if p.visual {
		return p.completeVisualOperator(op, sh.linewise)
	}
	cmd := p.buildBaseCommand()
	cmd.Kind = KindOperator
	cmd.Operator = op
	if sh.linewise {
		cmd.Linewise = true
	} else {
		cmd.Motion = GetMotion(sh.motion)
	}
	return p.complete(cmd)
}

func (p *Parser) completeSpecial(sp Special) ParseResult {
	cmd := p.buildBaseCommand()
	cmd.Kind = KindSpecial
	cmd.Special = sp
	return p.complete(cmd)
}

// buildBaseCommand creates a Command with common fields set.
func (p *Parser) buildBaseCommand() *Command {
	cmd := &Command{Kind: KindMotion, Register: p.register, Keys: p.Keys()}
	if p.count1.Active || p.count2.Active {
		cmd.Count = CombineCounts(p.count1.Get(), p.count2.Get())
	}
	return cmd
}

func (p *Parser) pending() ParseResult {
	return ParseResult{Status: StatusPending, PendingDisplay: p.PendingKeys()}
}

func (p *Parser) complete(cmd *Command) ParseResult {
	p.Reset()
	return ParseResult{Status: StatusComplete, Command: cmd}
}

func (p *Parser) invalid() ParseResult {
	p.Reset()
	return ParseResult{Status: StatusInvalid}
}
