package main

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dshills/vimcore/internal/app"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/vim"
)

type runOptions struct {
	file  string
	text  string
	keys  string
	write bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply keys to a file or text and print the result",
		Long: `Run feeds a key sequence to the engine and prints the buffer, cursor,
mode and registers afterwards. Keys use Vim notation: "3dw", "ciwnew<Esc>",
":s/a/b/g<CR>".

Examples:
  # Delete three words of a file without touching it
  vimcore run --file notes.txt --keys 3dw

  # Edit text given on the command line
  vimcore run --text "alpha beta" --keys "wD"

  # Apply the keys and save the file
  vimcore run -f notes.txt -k "ggdd" --write`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKeys(cmd.OutOrStdout(), cmd.ErrOrStderr(), g, &opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "file to edit")
	flags.StringVarP(&opts.text, "text", "t", "", "text to edit instead of a file")
	flags.StringVarP(&opts.keys, "keys", "k", "", "keys to apply in Vim notation")
	flags.BoolVarP(&opts.write, "write", "w", false, "save the file after applying the keys")
	_ = cmd.MarkFlagRequired("keys")
	cmd.MarkFlagsMutuallyExclusive("file", "text")
	return cmd
}

func runKeys(out, errOut io.Writer, g *globalOptions, opts *runOptions) (err error) {
	seq, err := key.ParseSequence(opts.keys)
	if err != nil {
		return fmt.Errorf("parsing keys: %w", err)
	}

	// The system clipboard is left alone; + and * live in memory.
	s, err := g.openSession(&memClipboard{})
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()

	var doc *app.Document
	if opts.file != "" {
		doc, err = s.app.Open(opts.file)
	} else {
		doc, err = s.app.OpenScratch(opts.text)
	}
	if err != nil {
		return err
	}

	for _, ev := range seq.Events {
		res := s.app.HandleKey(ev)
		if res.Err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", ev.VimString(), res.Err)
		}
		if s.app.QuitRequested() {
			break
		}
	}

	if opts.write {
		if err := doc.Save(); err != nil {
			return err
		}
	}
	printState(out, doc, s.app.Registers())
	return nil
}

// printState writes the document text and engine state.
func printState(out io.Writer, doc *app.Document, regs *vim.RegisterStore) {
	lines := doc.Lines()
	fmt.Fprintf(out, "buffer (%d lines):\n", len(lines))
	for i, line := range lines {
		fmt.Fprintf(out, "%4d  %s\n", i+1, line)
	}

	cur := doc.Handler.Cursor()
	fmt.Fprintf(out, "cursor: %d,%d\n", cur.Line+1, cur.Column+1)
	fmt.Fprintf(out, "mode: %s\n", doc.Handler.Mode())
	if pending := doc.Handler.PendingKeys(); pending != "" {
		fmt.Fprintf(out, "pending: %s\n", pending)
	}
	if msg := doc.Handler.Message(); msg != "" {
		fmt.Fprintf(out, "message: %s\n", msg)
	}

	entries := regs.Entries()
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(out, "registers:")
	for _, e := range entries {
		fmt.Fprintf(out, "  \"%c  %-4s  %q\n", e.Name, e.Kind, e.Content)
	}
}

// memClipboard backs the clipboard registers when the system clipboard
// must not be touched.
type memClipboard struct {
	mu      sync.Mutex
	content string
}

func (c *memClipboard) Get() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content, nil
}

func (c *memClipboard) Set(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = content
	return nil
}
