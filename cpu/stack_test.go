package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCpu(t *testing.T) (c *Cpu) {
	c, err := NewCpu(Config{
		Cache:        16,
		Stack:        4,
		AddressStack: 4,
		Ports:        4,
		CellBits:     16,
	}, StandardTable())
	assert.NoError(t, err)

	return
}

func TestStack_PushPop(t *testing.T) {
	assert := assert.New(t)

	c := testCpu(t)

	assert.NoError(c.Push(5))
	assert.NoError(c.Push(3))
	assert.Equal(uint32(2), c.Reg.Get(REG_SP))

	top, err := c.Peek()
	assert.NoError(err)
	assert.Equal(uint32(3), top)

	value, err := c.Pop()
	assert.NoError(err)
	assert.Equal(uint32(3), value)

	value, err = c.Pop()
	assert.NoError(err)
	assert.Equal(uint32(5), value)
	assert.Equal(uint32(0), c.Reg.Get(REG_SP))
}

func TestStack_Underflow(t *testing.T) {
	assert := assert.New(t)

	c := testCpu(t)

	_, err := c.Pop()
	assert.ErrorIs(err, ErrStackUnderflow)

	_, err = c.Peek()
	assert.ErrorIs(err, ErrStackUnderflow)
}

func TestStack_Overflow(t *testing.T) {
	assert := assert.New(t)

	c := testCpu(t)

	for n := range 4 {
		assert.NoError(c.Push(uint32(n)))
	}
	err := c.Push(99)
	assert.ErrorIs(err, ErrStackOverflow)
	assert.Equal(uint32(4), c.Reg.Get(REG_SP))
}

func TestStack_BalancedTraffic(t *testing.T) {
	assert := assert.New(t)

	c := testCpu(t)
	assert.NoError(c.Cache.Write(0, 0x77))

	// N pushes then N pops restore SP and leave cache and the other
	// registers untouched.
	for n := range 4 {
		assert.NoError(c.Push(uint32(n + 1)))
	}
	for range 4 {
		_, err := c.Pop()
		assert.NoError(err)
	}

	assert.Equal(uint32(0), c.Reg.Get(REG_SP))
	assert.Equal(uint32(0), c.Reg.Get(REG_ACC))
	assert.Equal(uint32(0), c.Reg.Get(REG_ASP))

	value, err := c.Cache.Read(0)
	assert.NoError(err)
	assert.Equal(uint32(0x77), value)
}

func TestAddressStack_Separate(t *testing.T) {
	assert := assert.New(t)

	c := testCpu(t)

	// Data and address stacks have independent cursors and cells.
	assert.NoError(c.Push(0x11))
	assert.NoError(c.PushAddress(0x22))

	assert.Equal(uint32(1), c.Reg.Get(REG_SP))
	assert.Equal(uint32(1), c.Reg.Get(REG_ASP))

	addr, err := c.PopAddress()
	assert.NoError(err)
	assert.Equal(uint32(0x22), addr)

	value, err := c.Pop()
	assert.NoError(err)
	assert.Equal(uint32(0x11), value)
}

func TestAddressStack_Bounds(t *testing.T) {
	assert := assert.New(t)

	c := testCpu(t)

	_, err := c.PopAddress()
	assert.ErrorIs(err, ErrAddressStackUnderflow)

	for n := range 4 {
		assert.NoError(c.PushAddress(uint32(n)))
	}
	err = c.PushAddress(99)
	assert.ErrorIs(err, ErrAddressStackOverflow)
}
