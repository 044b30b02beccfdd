package io

import (
	"github.com/ezrec/mipsim/translate"
)

var f = translate.From

var (
	// Configuration errors
	ErrSectionMissing = translate.Error("REGISTERS section missing")
	ErrSectionOrder   = translate.Error("section out of order")
	ErrRegisterLine   = translate.Error("register line invalid")
	ErrMemoryLine     = translate.Error("memory line invalid")
	ErrCodeLine       = translate.Error("code line invalid")
)

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
