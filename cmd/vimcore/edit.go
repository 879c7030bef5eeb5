package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/vimcore/internal/app"
	"github.com/dshills/vimcore/internal/terminal"
)

func newEditCmd(g *globalOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "edit [files...]",
		Short: "Edit files in the terminal",
		Long: `Edit opens the files in an interactive terminal editor. Without files it
opens an empty buffer. Use :w to save, :q to close a buffer, :bn and :bp to
switch buffers and :qa to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, g, args, watch)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch-config", true, "reload the configuration when its files change")
	return cmd
}

// runEdit opens files in the terminal host until the user quits.
func runEdit(cmd *cobra.Command, g *globalOptions, files []string, watch bool) (err error) {
	s, err := g.openSession(nil)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()

	var first *app.Document
	for _, f := range files {
		doc, err := s.app.Open(f)
		if err != nil {
			return err
		}
		if first == nil {
			first = doc
		}
	}
	if first != nil {
		_ = s.app.Documents().SetActive(first)
	} else if _, err := s.app.OpenScratch(""); err != nil {
		return err
	}

	if watch {
		if err := s.app.WatchConfig(s.paths); err != nil {
			s.app.Logger().Warn("config watch: %v", err)
		}
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	term, err := terminal.NewTerminal()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := term.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer term.Shutdown()

	err = terminal.NewHost(s.app, term).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
