package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/vimcore/internal/dispatcher/execctx"
	"github.com/dshills/vimcore/internal/engine/text"
)

func TestResultBuilders(t *testing.T) {
	r := Success().WithMessage("done").WithCursor(text.Position{Line: 2}).WithInsert()
	assert.True(t, r.IsOK())
	assert.Equal(t, "done", r.Message)
	assert.Equal(t, 2, r.Cursor.MustGet().Line)
	assert.True(t, r.EnterInsert)

	r = NoOpWithMessage("nothing")
	assert.True(t, r.IsNoOp())
	assert.True(t, r.Cursor.IsAbsent())

	err := errors.New("boom")
	r = Error(err)
	assert.True(t, r.IsError())
	assert.ErrorIs(t, r.Error, err)

	r = Errorf("wrapped: %w", err)
	assert.ErrorIs(t, r.Error, err)
	assert.Equal(t, "error", r.Status.String())

	r = Success().WithEdit(Edit{NewText: "a"}).WithEdit(Edit{OldText: "b"})
	assert.Len(t, r.Edits, 2)
}

func TestHandlerFunc(t *testing.T) {
	var h Handler = HandlerFunc(func(ctx *execctx.ExecutionContext) Result {
		return SuccessWithMessage(ctx.Args)
	})
	assert.Equal(t, "hi", h.Handle(execctx.New().WithArgs("hi")).Message)

	var nilFn HandlerFunc
	assert.True(t, nilFn.Handle(execctx.New()).IsError())
}
