// Package input is the modal editing engine a host drives one key at a
// time.
//
// A Handler owns one document's modal state: the mode machine, the command
// parser and a dispatcher that runs completed commands against the buffer.
// The host forwards every key event and looks at Result.Consumed:
//
//   - Normal and visual modes: keys accumulate in the parser until they form
//     a command, which is executed at once. Keys no command can start with
//     are returned unconsumed.
//   - Insert mode: ordinary keys are returned unconsumed so the host can
//     insert the text (and call SetCursor). The engine records them for
//     dot repeat. Escape returns to Normal.
//   - Command-line mode: Enter runs the line held by the LineEditor,
//     Escape abandons it.
//
// Usage:
//
//	buf := history.New(text.NewMemoryBuffer(content), 1000)
//	h := input.New(buf, input.Options{History: buf})
//	for ev := range events {
//	    if res := h.HandleKey(ev); !res.Consumed && h.Mode() == mode.Insert {
//	        // insert ev.Text() at h.Cursor()
//	    }
//	}
//
// All methods are safe for concurrent use. Callbacks in Options run after
// the handler lock is released.
package input
