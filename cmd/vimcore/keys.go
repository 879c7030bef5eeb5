package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/vim"
)

func newKeysCmd() *cobra.Command {
	var visual bool

	cmd := &cobra.Command{
		Use:   "keys <spec>",
		Short: "Show how the command parser reads a key sequence",
		Long: `Keys feeds a key sequence to the command parser one key at a time and
prints the parse status after each prefix: pending, complete or invalid.
A complete or invalid prefix ends the command and the next key starts a
new one. Complete commands are described by their parts.

Examples:
  vimcore keys 3dw
  vimcore keys '"a2yiw'
  vimcore keys --visual iw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showKeys(cmd.OutOrStdout(), args[0], visual)
		},
	}
	cmd.Flags().BoolVar(&visual, "visual", false, "parse with the visual mode grammar")
	return cmd
}

func showKeys(out io.Writer, spec string, visual bool) error {
	seq, err := key.ParseSequence(spec)
	if err != nil {
		return fmt.Errorf("parsing keys: %w", err)
	}
	if seq.IsEmpty() {
		return fmt.Errorf("parsing keys: %w", key.ErrEmptySpec)
	}

	// Each complete or invalid prefix ends a command; the next key starts
	// a new one.
	width := len(seq.String())
	start := 0
	for i := range seq.Events {
		prefix := seq.Events[start : i+1]
		res := vim.ParseKeys(prefix, visual)
		line := fmt.Sprintf("%-*s  %-8s", width, key.Format(prefix), res.Status)
		if res.Status == vim.StatusComplete {
			line += "  " + describeCommand(res.Command)
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
		if res.Status != vim.StatusPending {
			start = i + 1
		}
	}
	return nil
}

// describeCommand renders the parts of a parsed command.
func describeCommand(c *vim.Command) string {
	parts := []string{c.Kind.String()}
	if c.HasCount() {
		parts = append(parts, fmt.Sprintf("count=%d", c.Count))
	}
	if c.Register != 0 {
		parts = append(parts, fmt.Sprintf("register=%c", c.Register))
	}
	if c.Operator != nil {
		parts = append(parts, "operator="+c.Operator.Name)
	}
	if c.Motion != nil {
		parts = append(parts, "motion="+c.Motion.Name)
	}
	if c.TextObject != 0 {
		prefix := "a"
		if c.Inner {
			prefix = "i"
		}
		parts = append(parts, fmt.Sprintf("object=%s%c", prefix, c.TextObject))
	}
	if c.Linewise {
		parts = append(parts, "linewise")
	}
	if c.Special != "" {
		parts = append(parts, "special="+string(c.Special))
	}
	if c.Char != "" {
		parts = append(parts, fmt.Sprintf("char=%q", c.Char))
	}
	return strings.Join(parts, " ")
}
