package cpu

// Stack discipline: SP and ASP point at the first free slot of their
// segment. A push writes at the cursor and then increments it; a pop
// decrements the cursor and then reads. The two stacks are semantically
// separate so call nesting depth is independent of data-stack depth.

// Push pushes a value onto the data stack.
func (c *Cpu) Push(value uint32) (err error) {
	sp := c.Reg.Get(REG_SP)
	if int(sp) >= c.Stack.Cap() {
		return ErrIndex{Segment: c.Stack.Name(), Index: int(sp), Err: ErrStackOverflow}
	}
	err = c.Stack.Write(sp, value)
	if err != nil {
		return
	}

	return c.Reg.Set(REG_SP, sp+1)
}

// Pop pops the top value off the data stack.
func (c *Cpu) Pop() (value uint32, err error) {
	sp := c.Reg.Get(REG_SP)
	if sp == 0 {
		err = ErrIndex{Segment: c.Stack.Name(), Index: 0, Err: ErrStackUnderflow}
		return
	}
	sp--
	value, err = c.Stack.Read(sp)
	if err != nil {
		return
	}
	err = c.Reg.Set(REG_SP, sp)

	return
}

// Peek returns the top of the data stack without popping it.
func (c *Cpu) Peek() (value uint32, err error) {
	sp := c.Reg.Get(REG_SP)
	if sp == 0 {
		err = ErrIndex{Segment: c.Stack.Name(), Index: 0, Err: ErrStackUnderflow}
		return
	}

	return c.Stack.Read(sp - 1)
}

// PushAddress pushes a control-flow address onto the address stack.
func (c *Cpu) PushAddress(addr uint32) (err error) {
	asp := c.Reg.Get(REG_ASP)
	if int(asp) >= c.AddressStack.Cap() {
		return ErrIndex{Segment: c.AddressStack.Name(), Index: int(asp), Err: ErrAddressStackOverflow}
	}
	err = c.AddressStack.Write(asp, addr)
	if err != nil {
		return
	}

	return c.Reg.Set(REG_ASP, asp+1)
}

// PopAddress pops a control-flow address off the address stack.
func (c *Cpu) PopAddress() (addr uint32, err error) {
	asp := c.Reg.Get(REG_ASP)
	if asp == 0 {
		err = ErrIndex{Segment: c.AddressStack.Name(), Index: 0, Err: ErrAddressStackUnderflow}
		return
	}
	asp--
	addr, err = c.AddressStack.Read(asp)
	if err != nil {
		return
	}
	err = c.Reg.Set(REG_ASP, asp)

	return
}
