package app

import (
	"fmt"
	"strings"
	"unicode"
)

// exCommand is a host ex command. Names use Vim notation: "w[rite]"
// accepts "w", "wr" up to "write".
type exCommand struct {
	spec string
	run  func(app *Application, doc *Document, bang bool, args string) error
}

var exCommands []exCommand

// exCommands is filled in init to break the initialization cycle
// exEdit -> Open -> runEx -> lookupEx -> exCommands.
func init() {
	exCommands = []exCommand{
		{"w[rite]", exWrite},
		{"wq", exWriteQuit},
		{"x[it]", exXit},
		{"q[uit]", exQuit},
		{"qa[ll]", exQuitAll},
		{"e[dit]", exEdit},
		{"bn[ext]", exBufferNext},
		{"bp[revious]", exBufferPrevious},
		{"bd[elete]", exBufferDelete},
	}
}

// lookupEx resolves a possibly abbreviated command name.
func lookupEx(word string) (exCommand, bool) {
	for _, c := range exCommands {
		full, minimum := c.spec, len(c.spec)
		if i := strings.IndexByte(c.spec, '['); i >= 0 {
			full = c.spec[:i] + strings.Trim(c.spec[i:], "[]")
			minimum = i
		}
		if len(word) >= minimum && strings.HasPrefix(full, word) {
			return c, true
		}
	}
	return exCommand{}, false
}

// parseHostEx splits "w! name" into the name, bang and arguments.
func parseHostEx(line string) (name string, bang bool, args string) {
	line = strings.TrimLeft(line, ": \t")
	n := strings.IndexFunc(line, func(r rune) bool { return !unicode.IsLetter(r) })
	if n < 0 {
		n = len(line)
	}
	name, rest := line[:n], line[n:]
	rest, bang = strings.CutPrefix(rest, "!")
	return name, bang, strings.TrimSpace(rest)
}

// runEx is the engine fallback for ex commands it does not implement.
func (app *Application) runEx(doc *Document, line string) error {
	if doc == nil {
		return ErrNoActiveDocument
	}
	name, bang, args := parseHostEx(line)
	cmd, ok := lookupEx(name)
	if !ok {
		return fmt.Errorf("not an editor command: %s", strings.TrimSpace(line))
	}
	app.logger.Debug("ex %s bang=%t args=%q", name, bang, args)
	return cmd.run(app, doc, bang, args)
}

func exWrite(_ *Application, doc *Document, _ bool, args string) error {
	if args != "" {
		return doc.SaveAs(args)
	}
	return doc.Save()
}

func exWriteQuit(app *Application, doc *Document, bang bool, args string) error {
	if err := exWrite(app, doc, bang, args); err != nil {
		return err
	}
	return exQuit(app, doc, true, "")
}

func exXit(app *Application, doc *Document, bang bool, args string) error {
	if doc.IsModified() || args != "" {
		if err := exWrite(app, doc, bang, args); err != nil {
			return err
		}
	}
	return exQuit(app, doc, true, "")
}

// exQuit closes the document. Closing the last one asks the host to exit.
func exQuit(app *Application, doc *Document, bang bool, args string) error {
	if args != "" {
		return ErrTrailingCharacters
	}
	if doc.IsModified() && !bang {
		return ErrUnsavedChanges
	}
	app.closeDocument(doc)
	return nil
}

func exQuitAll(app *Application, _ *Document, bang bool, args string) error {
	if args != "" {
		return ErrTrailingCharacters
	}
	if app.documents.HasDirty() && !bang {
		return ErrUnsavedChanges
	}
	app.quit.Store(true)
	return nil
}

// exEdit opens a file, or reloads the current one when no file is given.
func exEdit(app *Application, doc *Document, bang bool, args string) error {
	if args == "" {
		if doc.IsModified() && !bang {
			return ErrUnsavedChanges
		}
		if doc.IsScratch() {
			return ErrNoFilePath
		}
		app.deferAfterKey(func() {
			if err := doc.Reload(); err != nil {
				app.logger.Warn("reload %s: %v", doc.Name(), err)
			}
		})
		return nil
	}
	_, err := app.Open(args)
	return err
}

func exBufferNext(app *Application, _ *Document, _ bool, _ string) error {
	app.documents.Next()
	return nil
}

func exBufferPrevious(app *Application, _ *Document, _ bool, _ string) error {
	app.documents.Previous()
	return nil
}

func exBufferDelete(app *Application, doc *Document, bang bool, args string) error {
	return exQuit(app, doc, bang, args)
}

// closeDocument removes doc after the current key and releases it.
func (app *Application) closeDocument(doc *Document) {
	_ = app.documents.Remove(doc)
	if app.documents.Count() == 0 {
		app.quit.Store(true)
	}
	app.deferAfterKey(func() {
		if err := doc.Close(); err != nil {
			app.logger.Warn("close %s: %v", doc.Name(), err)
		}
	})
}
