package dispatcher

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/samber/mo"

	"github.com/dshills/vimcore/internal/dispatcher/execctx"
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/dispatcher/handlers/operator"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// ExecuteCommandLine runs the text typed on the command line and returns to
// Normal mode. The line is an ex command or a search pattern depending on
// how the command line was opened.
func (d *Dispatcher) ExecuteCommandLine(line string) handler.Result {
	startTime := time.Now()
	d.message = ""

	kind := d.machine.CommandLineKind()
	d.machine.SetMode(mode.Normal)

	var name string
	var result handler.Result
	if kind.IsSearch() {
		name = "search"
		result = d.runSearch(line, kind == mode.CommandSearchForward)
	} else {
		name, result = d.runEx(line)
	}
	d.cursor = d.buf.Snapshot().CursorAt(d.cursor.Line, d.cursor.Column)

	d.finish(name, result)
	if d.metrics != nil {
		d.metrics.RecordDispatch(name, time.Since(startTime), result.Status)
	}
	return result
}

// exLine is a parsed ex command line.
type exLine struct {
	first, last int
	ranged      bool
	name        string
	args        string
}

// runEx parses and runs one ex command. It returns the metrics name of the
// command with the result.
func (d *Dispatcher) runEx(line string) (string, handler.Result) {
	line = strings.TrimLeft(line, ": \t")
	if line == "" {
		return "ex", handler.NoOp()
	}
	d.registers.SetLastCommand(line)

	snap := d.buf.Snapshot()
	ex, err := parseEx(line, snap, d.cursor.Line)
	if err != nil {
		return "ex", handler.Error(err)
	}

	if ex.name == "" {
		if !ex.ranged {
			return "ex", handler.Error(fmt.Errorf("%w: %s", ErrUnknownCommand, line))
		}
		d.cursor = snap.PositionAt(ex.last, motion.FirstNonBlank(snap.Clusters(ex.last)))
		return "ex:goto", handler.Success().WithCursor(d.cursor)
	}

	h, full := d.ex.Get(ex.name)
	if h == nil {
		if d.fallback == nil {
			return "ex", handler.Error(fmt.Errorf("%w: %s", ErrUnknownCommand, ex.name))
		}
		d.logger.Debug("ex fallback: %s", line)
		if err := d.fallback(line); err != nil {
			return "ex:fallback", handler.Error(err)
		}
		return "ex:fallback", handler.Success()
	}

	ctx := d.context(0, 1).WithLines(ex.first, ex.last).WithArgs(ex.args)
	result := h.Handle(ctx)
	d.apply(result)
	return "ex:" + full, result
}

// parseEx splits a command line into range, name and arguments.
// Supported addresses are N, ".", "$" and "%", each optionally followed by
// +N or -N, and pairs "a,b". Lines are one-based on the command line.
func parseEx(line string, snap *text.Snapshot, cur int) (exLine, error) {
	ex := exLine{first: cur, last: cur}
	rest := strings.TrimSpace(line)

	if strings.HasPrefix(rest, "%") {
		ex.first, ex.last, ex.ranged = 0, snap.LastLine(), true
		rest = rest[1:]
	} else {
		a, n, ok, err := parseAddress(rest, snap, cur)
		if err != nil {
			return ex, err
		}
		if ok {
			ex.first, ex.last, ex.ranged = a, a, true
			rest = rest[n:]
			if strings.HasPrefix(rest, ",") {
				b, m, ok, err := parseAddress(rest[1:], snap, cur)
				if err != nil {
					return ex, err
				}
				if !ok {
					return ex, fmt.Errorf("%w: %s", ErrInvalidRange, line)
				}
				ex.last = b
				rest = rest[1+m:]
			}
		}
	}
	if ex.first > ex.last {
		ex.first, ex.last = ex.last, ex.first
	}

	rest = strings.TrimLeft(rest, " \t")
	n := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) })
	if n < 0 {
		n = len(rest)
	}
	ex.name = rest[:n]
	ex.args = strings.TrimSpace(rest[n:])
	return ex, nil
}

// parseAddress reads one line address and returns the zero-based line,
// the number of bytes consumed and whether an address was present.
func parseAddress(s string, snap *text.Snapshot, cur int) (int, int, bool, error) {
	i := 0
	line := cur
	found := false

	switch {
	case strings.HasPrefix(s, "."):
		i, found = 1, true
	case strings.HasPrefix(s, "$"):
		line, i, found = snap.LastLine(), 1, true
	default:
		j := digitsEnd(s)
		if j > 0 {
			n, err := strconv.Atoi(s[:j])
			if err != nil {
				return 0, 0, false, fmt.Errorf("%w: %s", ErrInvalidRange, s[:j])
			}
			line, i, found = n-1, j, true
		}
	}

	for i < len(s) && (s[i] == '+' || s[i] == '-') {
		sign := 1
		if s[i] == '-' {
			sign = -1
		}
		i++
		j := digitsEnd(s[i:])
		delta := 1
		if j > 0 {
			delta, _ = strconv.Atoi(s[i : i+j])
			i += j
		}
		line += sign * delta
		found = true
	}

	if !found {
		return 0, 0, false, nil
	}
	return min(max(line, 0), snap.LastLine()), i, true, nil
}

func digitsEnd(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// registerExCommands installs the built-in ex commands.
func (d *Dispatcher) registerExCommands() {
	d.ex.Register("d[elete]", handler.HandlerFunc(d.exDelete))
	d.ex.Register("y[ank]", handler.HandlerFunc(d.exYank))
	d.ex.Register("s[ubstitute]", handler.HandlerFunc(d.exSubstitute))
	d.ex.Register("reg[isters]", handler.HandlerFunc(d.exRegisters))
	d.ex.Register("di[splay]", handler.HandlerFunc(d.exRegisters))
	d.ex.Register("noh[lsearch]", handler.HandlerFunc(d.exNoHighlight))
	d.ex.Register("lua", handler.HandlerFunc(d.exLua))
	d.ex.Register("se[t]", handler.HandlerFunc(d.exSet))
}

// lineArgs parses "[x] [count]" for :delete and :yank. A count extends
// the range from its last line.
func lineArgs(ctx *execctx.ExecutionContext) (motion.Range, rune, error) {
	args := ctx.Args
	var reg rune
	if args != "" && !unicode.IsDigit(rune(args[0])) {
		r := []rune(args)[0]
		if !vim.IsValidRegister(r) {
			return motion.Range{}, 0, fmt.Errorf("%w: %s", ErrInvalidArgument, args)
		}
		reg = r
		args = strings.TrimSpace(string([]rune(args)[1:]))
	}

	first, last := ctx.FirstLine, ctx.LastLine
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n <= 0 {
			return motion.Range{}, 0, fmt.Errorf("%w: %s", ErrInvalidArgument, args)
		}
		first = last
		last = min(last+n-1, ctx.Snapshot.LastLine())
	}

	return motion.Range{
		Start:    ctx.Snapshot.PositionAt(first, 0),
		End:      ctx.Snapshot.PositionAt(last, 0),
		Linewise: true,
	}, reg, nil
}

func (d *Dispatcher) exDelete(ctx *execctx.ExecutionContext) handler.Result {
	r, reg, err := lineArgs(ctx)
	if err != nil {
		return handler.Error(err)
	}
	op, _ := operator.Lookup(vim.OpDelete)
	return op.Execute(r, ctx.WithRegister(reg))
}

func (d *Dispatcher) exYank(ctx *execctx.ExecutionContext) handler.Result {
	r, reg, err := lineArgs(ctx)
	if err != nil {
		return handler.Error(err)
	}
	op, _ := operator.Lookup(vim.OpYank)
	result := op.Execute(r, ctx.WithRegister(reg))
	// :yank leaves the cursor where it was.
	result.Cursor = mo.None[text.Position]()
	return result
}

// splitSubstitute parses "/pat/rep/flags". Any non-alphanumeric character
// may serve as the delimiter; a backslash escapes it.
func splitSubstitute(args string) (pattern, replacement, flags string, err error) {
	runes := []rune(args)
	if len(runes) == 0 || unicode.IsLetter(runes[0]) || unicode.IsDigit(runes[0]) ||
		unicode.IsSpace(runes[0]) || runes[0] == '\\' {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidArgument, args)
	}
	delim := runes[0]

	var parts []string
	var sb strings.Builder
	for i := 1; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes) && runes[i+1] == delim:
			sb.WriteRune(delim)
			i++
		case r == delim && len(parts) < 2:
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	parts = append(parts, sb.String())

	switch len(parts) {
	case 1:
		return parts[0], "", "", nil
	case 2:
		return parts[0], parts[1], "", nil
	}
	return parts[0], parts[1], parts[2], nil
}

func (d *Dispatcher) exSubstitute(ctx *execctx.ExecutionContext) handler.Result {
	pattern, replacement, flags, err := splitSubstitute(ctx.Args)
	if err != nil {
		return handler.Error(err)
	}
	global := false
	for _, f := range flags {
		switch f {
		case 'g':
			global = true
		case ' ':
		default:
			return handler.Error(fmt.Errorf("%w: flag %q", ErrInvalidArgument, f))
		}
	}

	if pattern == "" {
		last, ok := d.lastSearch.Get()
		if !ok {
			return handler.Error(ErrNoPreviousPattern)
		}
		pattern = last.Pattern
	}
	d.lastSearch = mo.Some(Search{Pattern: pattern, Forward: true})
	d.registers.SetLastSearch(pattern)

	n := 1
	if global {
		n = -1
	}

	snap := ctx.Snapshot
	result := handler.Success()
	subs, lines := 0, 0
	lastLine := -1
	for l := ctx.LastLine; l >= ctx.FirstLine; l-- {
		old := snap.Line(l)
		hits := strings.Count(old, pattern)
		if hits == 0 {
			continue
		}
		if !global {
			hits = 1
		}
		updated := strings.Replace(old, pattern, replacement, n)
		start, end := snap.PositionAt(l, 0), snap.LineEnd(l)
		if err := ctx.Buffer.ReplaceRange(start, end, updated); err != nil {
			return handler.Error(fmt.Errorf("substitute line %d: %w", l+1, err))
		}
		result = result.WithEdit(handler.Edit{Start: start, End: end, NewText: updated, OldText: old})
		subs += hits
		lines++
		if lastLine < 0 {
			lastLine = l
		}
	}

	if subs == 0 {
		return handler.Error(fmt.Errorf("%w: %s", ErrPatternNotFound, pattern))
	}

	after := d.buf.Snapshot()
	result = result.WithCursor(after.PositionAt(lastLine, motion.FirstNonBlank(after.Clusters(lastLine))))
	if lines > 1 {
		result = result.WithMessage(fmt.Sprintf("%d substitutions on %d lines", subs, lines))
	}
	return result
}

func (d *Dispatcher) exRegisters(ctx *execctx.ExecutionContext) handler.Result {
	var sb strings.Builder
	sb.WriteString("Type Name Content")
	for _, e := range d.registers.Entries() {
		kind := "c"
		if e.Register.IsLinewise() {
			kind = "l"
		}
		content := strings.ReplaceAll(e.Register.Content, "\n", "^J")
		content = strings.ReplaceAll(content, "\t", "^I")
		fmt.Fprintf(&sb, "\n  %s  \"%c   %s", kind, e.Name, content)
	}
	return handler.SuccessWithMessage(sb.String())
}

func (d *Dispatcher) exNoHighlight(ctx *execctx.ExecutionContext) handler.Result {
	d.highlight = false
	return handler.Success()
}

func (d *Dispatcher) exLua(ctx *execctx.ExecutionContext) handler.Result {
	if d.lua == nil {
		return handler.Error(ErrNoLua)
	}
	if ctx.Args == "" {
		return handler.Error(fmt.Errorf("%w: missing lua code", ErrInvalidArgument))
	}
	if d.inLua {
		return handler.Error(fmt.Errorf("%w: :lua inside lua", ErrInvalidArgument))
	}
	d.inLua = true
	err := d.lua.Exec(ctx.Args)
	d.inLua = false
	if err != nil {
		return handler.Error(fmt.Errorf("lua: %w", err))
	}
	d.cursor = d.buf.Snapshot().CursorAt(d.cursor.Line, d.cursor.Column)
	return handler.Success().WithCursor(d.cursor)
}

// exSet changes editor options: sw=N, et, noet, ws, nows and their long
// names. Without arguments it reports the current values.
func (d *Dispatcher) exSet(ctx *execctx.ExecutionContext) handler.Result {
	if ctx.Args == "" {
		o := d.options
		return handler.SuccessWithMessage(fmt.Sprintf("shiftwidth=%d %s %s",
			o.ShiftWidth, flagName("expandtab", o.ExpandTab), flagName("wrapscan", o.WrapScan)))
	}

	opts := d.options
	for _, arg := range strings.Fields(ctx.Args) {
		name, value, hasValue := strings.Cut(arg, "=")
		switch {
		case hasValue && (name == "sw" || name == "shiftwidth"):
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return handler.Error(fmt.Errorf("%w: %s", ErrInvalidArgument, arg))
			}
			opts.ShiftWidth = n
		case hasValue:
			return handler.Error(fmt.Errorf("%w: %s", ErrInvalidArgument, arg))
		case name == "et" || name == "expandtab":
			opts.ExpandTab = true
		case name == "noet" || name == "noexpandtab":
			opts.ExpandTab = false
		case name == "ws" || name == "wrapscan":
			opts.WrapScan = true
		case name == "nows" || name == "nowrapscan":
			opts.WrapScan = false
		default:
			return handler.Error(fmt.Errorf("%w: unknown option %s", ErrInvalidArgument, arg))
		}
	}
	d.options = opts
	return handler.Success()
}

func flagName(name string, on bool) string {
	if on {
		return name
	}
	return "no" + name
}
