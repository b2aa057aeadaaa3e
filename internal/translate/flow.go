package translate

import (
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/move-decompiler/bytecode"
	"github.com/wippyai/move-decompiler/internal/ast"
	"github.com/wippyai/move-decompiler/internal/cursor"
)

// loop describes a loop being translated. Jumps to header or cont continue
// it; jumps at or past end leave it.
type loop struct {
	header int
	cont   int
	end    int
}

// scope bounds one block. join is where control goes when the block falls
// off its end, or -1 at the top level.
type scope struct {
	loop *loop
	end  int
	join int
}

// scanLoops records every back edge target as a loop header, extending the
// loop to cover its furthest back edge. It also records each conditional
// branch that only hops over an unconditional one, keyed by offset, with the
// unconditional target as its real exit.
func (f *function) scanLoops() {
	f.loops = make(map[int]int)
	f.hops = make(map[int]int)
	cur := cursor.New(f.Code)
	for off, instr, ok := cur.Next(); ok; off, instr, ok = cur.Next() {
		t, isBranch := instr.Branch()
		if !isBranch {
			continue
		}
		if int(t) <= off {
			f.loops[int(t)] = max(f.loops[int(t)], off+1)
			continue
		}
		if instr.Opcode == bytecode.OpBranch || int(t) != off+2 {
			continue
		}
		if next := cur.Relative(1); next.Opcode == bytecode.OpBranch {
			exit, _ := next.Branch()
			f.hops[off] = int(exit)
		}
	}
}

// body translates the whole function. A trailing return becomes the
// block's value.
func (f *function) body() *ast.Block {
	c := f.context(0)
	f.run(c, 0, len(f.Code), scope{end: len(f.Code), join: -1})
	c.Flush()
	if len(f.hoisted) > 0 {
		c.Block.Stmts = append(f.hoisted, c.Block.Stmts...)
		f.hoisted = nil
	}

	n := len(c.Block.Stmts)
	if n == 0 {
		return c.Block
	}
	if ret, ok := c.Block.Stmts[n-1].(*ast.Return); ok {
		switch len(ret.Values) {
		case 0:
			c.Block.Stmts = c.Block.Stmts[:n-1]
		case 1:
			c.Block.Stmts[n-1] = ret.Values[0]
		default:
			c.Block.Stmts[n-1] = &ast.Tuple{Range: ret.Range, Values: ret.Values}
		}
	}
	return c.Block
}

// block translates [start, end) into a nested block.
func (f *function) block(start, end int, sc scope, depth int) *ast.Block {
	c := f.context(depth)
	f.run(c, start, end, sc)
	c.Flush()
	c.Block.Range = ast.Range{Start: start, End: end}
	return c.Block
}

func (f *function) run(c *Context, start, end int, sc scope) {
	pc := start
	for pc < end {
		if lend, ok := f.loops[pc]; ok && (sc.loop == nil || sc.loop.header != pc) {
			pc = f.loop(c, pc, min(lend, end))
			continue
		}
		instr := f.cur.Absolute(pc)
		switch instr.Opcode {
		case bytecode.OpBrTrue, bytecode.OpBrFalse:
			pc = f.conditional(c, pc, end, sc)
		case bytecode.OpBranch:
			f.jump(c, pc, sc)
			pc++
		default:
			f.dispatch(c, pc, instr)
			pc++
		}
	}
}

// dispatch runs the handler for one instruction, substituting a placeholder
// when the handler rejects it.
func (f *function) dispatch(c *Context, off int, instr bytecode.Instruction) {
	h := f.registry.Get(instr.Opcode)
	var err error
	if h == nil {
		err = invalidData("code", "no handler for "+instr.Opcode.String())
	} else {
		err = h.Handle(c, off, instr)
	}
	if err == nil {
		return
	}
	f.log.Debug("unrecognized instruction",
		zap.Int("offset", off),
		zap.Stringer("opcode", instr.Opcode),
		zap.Error(err))
	c.Stack.Push(&ast.Placeholder{Range: ast.At(off), Kind: ast.PlaceholderUnrecognized, Text: instr.Opcode.String()})
}

// loop translates the loop whose header is h and whose last back edge is
// at lend-1.
func (f *function) loop(c *Context, h, lend int) int {
	c.Flush()
	lp := &loop{header: h, cont: h, end: lend}
	sc := scope{loop: lp, end: lend, join: h}
	if cond, bodyStart, ok := f.whileHead(h, lend); ok {
		body := f.block(bodyStart, lend, sc, c.depth+1)
		c.Emit(&ast.While{Range: ast.Range{Start: h, End: lend}, Cond: cond, Body: body})
		return lend
	}
	body := f.block(h, lend, sc, c.depth+1)
	c.Emit(&ast.Loop{Range: ast.Range{Start: h, End: lend}, Body: body})
	return lend
}

// whileHead recognizes a loop that starts with a side-effect free condition
// followed by a conditional exit, either "cond; BrFalse exit" or
// "cond; BrTrue body; Branch exit".
func (f *function) whileHead(h, lend int) (ast.Expr, int, bool) {
	b := h
	for ; b < lend; b++ {
		op := f.cur.Absolute(b).Opcode
		if op.IsBranch() || !pure(op) {
			break
		}
	}
	if b == h || b >= lend {
		return nil, 0, false
	}
	br := f.cur.Absolute(b)
	if br.Opcode != bytecode.OpBrTrue && br.Opcode != bytecode.OpBrFalse {
		return nil, 0, false
	}
	raw, _ := br.Branch()
	t := int(raw)
	negate := br.Opcode == bytecode.OpBrTrue
	bodyStart := b + 1
	if exit, ok := f.hops[b]; ok {
		t = exit
		negate = !negate
		bodyStart = b + 2
	}
	if t < lend {
		return nil, 0, false
	}

	head := f.context(1)
	for off := h; off < b; off++ {
		f.dispatch(head, off, f.cur.Absolute(off))
	}
	if len(head.Block.Stmts) > 0 || head.Stack.Len() != 1 || !ast.IsValue(head.Stack.Peek()) {
		return nil, 0, false
	}
	cond := head.Stack.Pop(b)
	if negate {
		cond = ast.Not(cond)
	}
	return cond, bodyStart, true
}

// pure reports whether op can appear in a loop condition. Stores and
// terminators never do.
func pure(op bytecode.Opcode) bool {
	switch op {
	case bytecode.OpStLoc, bytecode.OpPop, bytecode.OpRet, bytecode.OpAbort,
		bytecode.OpWriteRef, bytecode.OpMoveTo, bytecode.OpMoveToGeneric,
		bytecode.OpVecPushBack, bytecode.OpVecSwap, bytecode.OpUnpack,
		bytecode.OpUnpackGeneric, bytecode.OpVecUnpack:
		return false
	}
	return true
}

// conditional translates the conditional branch at pc and returns the
// offset to continue from.
func (f *function) conditional(c *Context, pc, end int, sc scope) int {
	instr := f.cur.Absolute(pc)
	cond := c.Stack.Pop(pc)
	c.Flush()

	// Normalize to: run [thenStart, t) when cond holds, otherwise go to t.
	raw, _ := instr.Branch()
	t := int(raw)
	thenStart := pc + 1
	normalized := false
	if exit, ok := f.hops[pc]; ok && pc+1 < end {
		t = exit
		thenStart = pc + 2
		normalized = true
		if instr.Opcode == bytecode.OpBrFalse {
			cond = ast.Not(cond)
		}
	} else if instr.Opcode == bytecode.OpBrTrue {
		cond = ast.Not(cond)
	}
	rng := ast.Range{Start: cond.Span().Start, End: thenStart}

	if lp := sc.loop; lp != nil {
		if t == lp.header || t == lp.cont {
			if thenStart >= sc.end && sc.join == t {
				c.Emit(&ast.If{Range: rng, Cond: cond, Then: stmtBlock(&ast.Break{Range: ast.At(pc)})})
			} else {
				c.Emit(&ast.If{Range: rng, Cond: ast.Not(cond), Then: stmtBlock(&ast.Continue{Range: ast.At(pc)})})
			}
			return thenStart
		}
		if t >= lp.end {
			c.Emit(&ast.If{Range: rng, Cond: ast.Not(cond), Then: stmtBlock(&ast.Break{Range: ast.At(pc)})})
			return thenStart
		}
	}
	if t <= pc {
		f.log.Debug("backward branch outside loop", zap.Int("offset", pc), zap.Int("target", t))
		c.Emit(&ast.If{Range: rng, Cond: ast.Not(cond), Then: stmtBlock(&ast.Continue{Range: ast.At(pc)})})
		return thenStart
	}
	t = min(t, end)

	if !normalized {
		if next, ok := f.rotated(c, pc, t, cond); ok {
			return next
		}
	}

	if t-1 >= thenStart {
		if j, ok := f.cur.Absolute(t - 1).Branch(); ok && f.cur.Absolute(t-1).Opcode == bytecode.OpBranch && int(j) > t {
			elseEnd := int(j)
			leaves := sc.loop != nil && elseEnd >= sc.loop.end
			if elseEnd > end && elseEnd == sc.join {
				elseEnd = end
			}
			if !leaves && elseEnd <= end {
				then := f.block(thenStart, t-1, scope{loop: sc.loop, end: t - 1, join: int(j)}, c.depth+1)
				els := f.block(t, elseEnd, scope{loop: sc.loop, end: elseEnd, join: int(j)}, c.depth+1)
				rng.End = elseEnd
				c.Emit(&ast.If{Range: rng, Cond: cond, Then: then, Else: els})
				return elseEnd
			}
		}
	}

	then := f.block(thenStart, t, scope{loop: sc.loop, end: t, join: t}, c.depth+1)
	rng.End = t
	c.Emit(&ast.If{Range: rng, Cond: cond, Then: then})
	return t
}

// rotated recognizes "cond; BrFalse exit; body; cond; BrTrue body" where the
// loop starting right after the branch ends at exit with a copy of the
// guarding condition.
func (f *function) rotated(c *Context, pc, exit int, cond ast.Expr) (int, bool) {
	h := pc + 1
	lend, ok := f.loops[h]
	if !ok || lend != exit || f.cur.Absolute(pc).Opcode != bytecode.OpBrFalse {
		return 0, false
	}
	back := f.cur.Absolute(lend - 1)
	if t, _ := back.Branch(); back.Opcode != bytecode.OpBrTrue || int(t) != h {
		return 0, false
	}
	start := cond.Span().Start
	k := pc - start
	if k <= 0 || lend-1-k < h {
		return 0, false
	}
	if !slices.Equal(f.cur.Slice(start, pc), f.cur.Slice(lend-1-k, lend-1)) {
		return 0, false
	}
	cont := lend - 1 - k
	lp := &loop{header: h, cont: cont, end: lend}
	body := f.block(h, cont, scope{loop: lp, end: cont, join: cont}, c.depth+1)
	c.Emit(&ast.While{Range: ast.Range{Start: start, End: lend}, Cond: cond, Body: body})
	return lend, true
}

// jump translates a standalone unconditional branch.
func (f *function) jump(c *Context, pc int, sc scope) {
	raw, _ := f.cur.Absolute(pc).Branch()
	t := int(raw)
	if lp := sc.loop; lp != nil {
		switch {
		case t == lp.header || t == lp.cont:
			if pc+1 >= sc.end && sc.join == t {
				return
			}
			c.Flush()
			c.Emit(&ast.Continue{Range: ast.At(pc)})
			return
		case t >= lp.end:
			c.Flush()
			c.Emit(&ast.Break{Range: ast.At(pc)})
			return
		}
	}
	if t <= pc {
		f.log.Debug("backward branch outside loop", zap.Int("offset", pc), zap.Int("target", t))
		c.Flush()
		c.Emit(&ast.Continue{Range: ast.At(pc)})
	}
}

func stmtBlock(stmts ...ast.Expr) *ast.Block {
	return &ast.Block{Stmts: stmts}
}
