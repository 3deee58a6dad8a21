package machine

import (
	"github.com/mna/ember/lang/bytecode"
	"github.com/mna/ember/lang/value"
)

// loop is the fetch-decode-execute cycle of spec.md §4.5, dispatching
// against the topmost call frame until the very first frame (the one
// Run pushed) returns.
func (th *Thread) loop() (value.Value, error) {
	for {
		fr := &th.frames[len(th.frames)-1]
		chunk := fr.closure.Template.Chunk

		if fr.ip >= len(chunk.Code) {
			ret, done, err := th.doReturn(value.NewNumber(0))
			if err != nil {
				return value.NilValue, err
			}
			if done {
				return ret, nil
			}
			continue
		}

		if th.MaxSteps > 0 {
			th.steps++
			if th.steps > th.MaxSteps {
				return value.NilValue, th.runtimeErrorf(chunk.Lines[fr.ip], "step limit exceeded")
			}
		}

		op := bytecode.Opcode(chunk.Code[fr.ip])
		line := chunk.Lines[fr.ip]
		fr.ip++

		switch op {
		case bytecode.LDC:
			k := chunk.Code[fr.ip]
			fr.ip++
			if !th.push(chunk.Constants[k]) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}

		case bytecode.LDF64:
			v := bytecode.ReadF64(chunk.Code, fr.ip)
			fr.ip += 8
			if !th.push(value.NewNumber(v)) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}

		case bytecode.LD0:
			if !th.push(value.NewNumber(0)) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}
		case bytecode.LD1:
			if !th.push(value.NewNumber(1)) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}
		case bytecode.LDTRUE:
			if !th.push(value.NewBool(true)) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}
		case bytecode.LDFALSE:
			if !th.push(value.NewBool(false)) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}

		case bytecode.LDLOC:
			i := int(chunk.Code[fr.ip])
			fr.ip++
			if !th.push(th.stack[fr.frameBase+i]) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}
		case bytecode.STLOC:
			i := int(chunk.Code[fr.ip])
			fr.ip++
			th.stack[fr.frameBase+i] = th.peek()

		case bytecode.LDGLOBAL:
			k := chunk.Code[fr.ip]
			fr.ip++
			name := chunk.Constants[k].AsObject().(*value.Str).S
			v, ok := th.Globals[name]
			if !ok {
				return value.NilValue, th.runtimeErrorf(line, "undefined global: %s", name)
			}
			if !th.push(v) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}
		case bytecode.STGLOBAL:
			k := chunk.Code[fr.ip]
			fr.ip++
			name := chunk.Constants[k].AsObject().(*value.Str).S
			th.Globals[name] = th.peek()

		case bytecode.LDUPVAL:
			i := int(chunk.Code[fr.ip])
			fr.ip++
			if !th.push(fr.closure.Upvalues[i].Get()) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}
		case bytecode.STUPVAL:
			i := int(chunk.Code[fr.ip])
			fr.ip++
			fr.closure.Upvalues[i].Set(th.peek())

		case bytecode.CLOSEUPVAL:
			th.closeCellAt(th.sp - 1)
			th.pop()

		case bytecode.NEG:
			a := th.pop()
			if !a.IsNumber() {
				return value.NilValue, th.runtimeErrorf(line, "operand must be a number, got %s", a.TypeName())
			}
			if !th.push(value.NewNumber(-a.AsNumber())) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}

		case bytecode.NOT:
			a := th.pop()
			if !th.push(value.NewBool(!a.Truthy())) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}

		case bytecode.ADD, bytecode.SUB, bytecode.MUL, bytecode.DIV:
			b := th.pop()
			a := th.pop()
			v, err := arith(op, a, b, line, th)
			if err != nil {
				return value.NilValue, err
			}
			if !th.push(v) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}

		case bytecode.EQ:
			b := th.pop()
			a := th.pop()
			if !th.push(value.NewBool(a.Equal(b))) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}

		case bytecode.GREATER, bytecode.LESS:
			b := th.pop()
			a := th.pop()
			if !a.IsNumber() || !b.IsNumber() {
				return value.NilValue, th.runtimeErrorf(line, "operands must be numbers, got %s and %s", a.TypeName(), b.TypeName())
			}
			var res bool
			if op == bytecode.GREATER {
				res = a.AsNumber() > b.AsNumber()
			} else {
				res = a.AsNumber() < b.AsNumber()
			}
			if !th.push(value.NewBool(res)) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}

		case bytecode.POP:
			th.pop()

		case bytecode.CALLI:
			n := int(chunk.Code[fr.ip])
			fr.ip++
			if err := th.call(n, line); err != nil {
				return value.NilValue, err
			}

		case bytecode.CLOSURE:
			k := chunk.Code[fr.ip]
			fr.ip++
			tmpl := chunk.Constants[k].AsObject().(*bytecode.FnTemplate)
			ups := make([]*value.Cell, tmpl.UpvalueCount)
			for i := range ups {
				isLocal := chunk.Code[fr.ip]
				idx := int(chunk.Code[fr.ip+1])
				fr.ip += 2
				if isLocal != 0 {
					ups[i] = th.findOrCreateOpenCell(fr.frameBase + idx)
				} else {
					ups[i] = fr.closure.Upvalues[idx]
				}
			}
			if !th.push(value.NewObject(&Closure{Template: tmpl, Upvalues: ups})) {
				return value.NilValue, th.runtimeErrorf(line, "stack overflow")
			}

		case bytecode.JMP:
			off := bytecode.ReadU16(chunk.Code, fr.ip)
			fr.ip += 2 + off

		case bytecode.JMPIFFALSE:
			off := bytecode.ReadU16(chunk.Code, fr.ip)
			fr.ip += 2
			if !th.peek().Truthy() {
				fr.ip += off
			}

		case bytecode.LOOP:
			off := bytecode.ReadU16(chunk.Code, fr.ip)
			fr.ip += 2 - off

		case bytecode.RET:
			v := th.pop()
			ret, done, err := th.doReturn(v)
			if err != nil {
				return value.NilValue, err
			}
			if done {
				return ret, nil
			}
		case bytecode.RET0:
			ret, done, err := th.doReturn(value.NewNumber(0))
			if err != nil {
				return value.NilValue, err
			}
			if done {
				return ret, nil
			}
		case bytecode.RET1:
			ret, done, err := th.doReturn(value.NewNumber(1))
			if err != nil {
				return value.NilValue, err
			}
			if done {
				return ret, nil
			}

		default:
			return value.NilValue, th.runtimeErrorf(line, "invalid opcode: %d", op)
		}
	}
}

// arith implements the four arithmetic opcodes, including spec.md
// §9's "numeric coercion for +" open question: number+number or
// string+string for ADD, numbers only for the rest.
func arith(op bytecode.Opcode, a, b value.Value, line int, th *Thread) (value.Value, error) {
	if op == bytecode.ADD {
		if a.IsNumber() && b.IsNumber() {
			return value.NewNumber(a.AsNumber() + b.AsNumber()), nil
		}
		as, aok := a.AsObject().(*value.Str)
		bs, bok := b.AsObject().(*value.Str)
		if a.IsObject() && b.IsObject() && aok && bok {
			return value.NewObject(th.interner().Intern(as.S + bs.S)), nil
		}
		return value.NilValue, th.runtimeErrorf(line, "operands to + must both be numbers or both be strings, got %s and %s", a.TypeName(), b.TypeName())
	}
	if !a.IsNumber() || !b.IsNumber() {
		return value.NilValue, th.runtimeErrorf(line, "operands must be numbers, got %s and %s", a.TypeName(), b.TypeName())
	}
	switch op {
	case bytecode.SUB:
		return value.NewNumber(a.AsNumber() - b.AsNumber()), nil
	case bytecode.MUL:
		return value.NewNumber(a.AsNumber() * b.AsNumber()), nil
	case bytecode.DIV:
		return value.NewNumber(a.AsNumber() / b.AsNumber()), nil
	}
	panic("arith: unreachable")
}

// call implements CALLI: pop the callee, verify arity, then either
// dispatch a NativeFn synchronously or push a new call frame for a
// Closure, per spec.md §4.5.
func (th *Thread) call(n int, line int) error {
	callee := th.pop()
	if !callee.IsObject() {
		return th.runtimeErrorf(line, "cannot call a %s value", callee.TypeName())
	}
	switch obj := callee.AsObject().(type) {
	case *NativeFn:
		if obj.Arity != n {
			return th.runtimeErrorf(line, "%s expects %d argument(s), got %d", obj.Name, obj.Arity, n)
		}
		args := make([]value.Value, n)
		copy(args, th.stack[th.sp-n:th.sp])
		th.sp -= n
		result, err := obj.Fn(th, args)
		if err != nil {
			if rerr, ok := err.(*RuntimeError); ok {
				if rerr.Line == 0 {
					rerr.Line = line
				}
				return rerr
			}
			return th.runtimeErrorf(line, "%s", err)
		}
		if !th.push(result) {
			return th.runtimeErrorf(line, "stack overflow")
		}
		return nil

	case *Closure:
		if obj.Template.Arity != n {
			return th.runtimeErrorf(line, "%s expects %d argument(s), got %d", obj.Template.Name, obj.Template.Arity, n)
		}
		if len(th.frames) >= th.maxCallDepth() {
			return th.runtimeErrorf(line, "call stack depth exceeded")
		}
		th.frames = append(th.frames, frame{closure: obj, ip: 0, frameBase: th.sp - n})
		return nil

	case *bytecode.FnTemplate:
		return th.runtimeErrorf(line, "cannot call a bare function template")

	default:
		return th.runtimeErrorf(line, "cannot call a %s value", callee.TypeName())
	}
}

// doReturn implements the RET/RET0/RET1 shared tail: close every open
// upvalue in the returning frame, truncate the stack to its base, pop
// the frame and push the return value for the caller, per spec.md
// §4.5. done is true once the very first frame (the one Run pushed)
// has returned.
func (th *Thread) doReturn(v value.Value) (value.Value, bool, error) {
	fr := th.frames[len(th.frames)-1]
	th.closeCellsFrom(fr.frameBase)
	th.sp = fr.frameBase
	th.frames = th.frames[:len(th.frames)-1]
	if len(th.frames) == 0 {
		// The frame Run pushed has no caller to hand the value to over
		// the stack; Run returns it directly instead, leaving the stack
		// exactly as conserved as it was before Run was called.
		return v, true, nil
	}
	if !th.push(v) {
		return value.NilValue, false, th.runtimeErrorf(0, "stack overflow")
	}
	return value.NilValue, false, nil
}
