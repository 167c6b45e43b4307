package io

import (
	"errors"

	"github.com/qtarch/qtvm/translate"
)

var f = translate.From

var (
	// Device errors
	ErrScriptValue = errors.New(f("script value not an integer"))
	ErrTapeEmpty   = errors.New(f("tape input exhausted"))
)
