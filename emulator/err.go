package emulator

import (
	"github.com/qtarch/qtvm/translate"
)

var f = translate.From

// ErrRuntime indicates the step at which a run faulted.
type ErrRuntime struct {
	Tick int
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("tick %d %v", err.Tick, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
