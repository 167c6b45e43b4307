package io

import (
	"errors"
	"io"
	"iter"
	"log"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/qtarch/qtvm/cpu"
)

// ScriptDevice models external device registers behind the ports segment
// with a Starlark program. The program may define two hooks:
//
//	read(port)         -> int or None
//	write(port, value)
//
// read supplies the value of a port read (None leaves the stored cell in
// place); write observes every port write. Machine constants are injected
// as predeclared globals from the Defines mechanism, along with an
// emit(value) builtin that appends to Output. Module globals are frozen
// after load, so hooks hold no script-side state; the ports segment and
// Output are the state.
type ScriptDevice struct {
	Name    string // Script name, used in diagnostics.
	Source  string // Starlark source text.
	Verbose bool   // Set to enable verbose logging.

	Output []uint32 // Values the script passed to emit().

	thread  *starlark.Thread
	readFn  starlark.Callable
	writeFn starlark.Callable
}

var _ cpu.PortDevice = (*ScriptDevice)(nil)

// Init compiles and executes the script, binding the read/write hooks.
// Integer-valued defines become Starlark ints; the rest become strings.
func (sd *ScriptDevice) Init(defines iter.Seq2[string, string]) (err error) {
	pred := starlark.StringDict{}
	for key, str := range defines {
		value, perr := strconv.ParseUint(str, 0, 32)
		if perr != nil {
			pred[key] = starlark.String(str)
			continue
		}
		pred[key] = starlark.MakeInt64(int64(value))
	}

	pred["emit"] = starlark.NewBuiltin("emit", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var value int
		err := starlark.UnpackArgs(b.Name(), args, kwargs, "value", &value)
		if err != nil {
			return nil, err
		}
		sd.Output = append(sd.Output, uint32(value))
		return starlark.None, nil
	})

	name := sd.Name
	if name == "" {
		name = "device"
	}
	sd.thread = &starlark.Thread{Name: name}

	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, sd.thread, name, sd.Source, pred)
	if err != nil {
		return
	}

	if fn, ok := globals["read"].(starlark.Callable); ok {
		sd.readFn = fn
	}
	if fn, ok := globals["write"].(starlark.Callable); ok {
		sd.writeFn = fn
	}

	return
}

// PortRead calls the script's read hook, if any.
func (sd *ScriptDevice) PortRead(port uint32) (value uint32, ok bool, err error) {
	if sd.readFn == nil {
		return
	}

	result, err := starlark.Call(sd.thread, sd.readFn, starlark.Tuple{starlark.MakeInt64(int64(port))}, nil)
	if err != nil {
		return
	}
	if result == starlark.None {
		return
	}

	st_int, isInt := result.(starlark.Int)
	if !isInt {
		err = ErrScriptValue
		return
	}
	u64, fits := st_int.Uint64()
	if !fits || u64 > uint64(^uint32(0)) {
		err = ErrScriptValue
		return
	}

	value = uint32(u64)
	ok = true

	if sd.Verbose {
		log.Printf("device %v: read(%d) = %d", sd.thread.Name, port, value)
	}

	return
}

// PortWrite calls the script's write hook, if any.
func (sd *ScriptDevice) PortWrite(port uint32, value uint32) (err error) {
	if sd.writeFn == nil {
		return
	}

	if sd.Verbose {
		log.Printf("device %v: write(%d, %d)", sd.thread.Name, port, value)
	}

	_, err = starlark.Call(sd.thread, sd.writeFn,
		starlark.Tuple{starlark.MakeInt64(int64(port)), starlark.MakeInt64(int64(value))}, nil)

	return
}

// TapeDevice maps a pair of ports onto sequential byte streams: reads of
// InPort take the next byte of Input, writes to OutPort append the low
// byte to Output. All other ports behave as ordinary memory.
type TapeDevice struct {
	Input  io.Reader
	Output io.Writer

	InPort  uint32
	OutPort uint32
}

var _ cpu.PortDevice = (*TapeDevice)(nil)

func (td *TapeDevice) PortRead(port uint32) (value uint32, ok bool, err error) {
	if port != td.InPort || td.Input == nil {
		return
	}

	var one [1]byte
	_, err = io.ReadFull(td.Input, one[:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrTapeEmpty
		}
		return
	}

	value = uint32(one[0])
	ok = true

	return
}

func (td *TapeDevice) PortWrite(port uint32, value uint32) (err error) {
	if port != td.OutPort || td.Output == nil {
		return
	}

	_, err = td.Output.Write([]byte{byte(value)})

	return
}
