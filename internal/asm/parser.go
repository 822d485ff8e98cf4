package asm

import (
	"math/big"

	"github.com/hashicorp/go-multierror"
)

// Parse lowers a preprocessed statement stream into a PietAsm, interning
// labels and validating mnemonic arity along the way. It accumulates
// every diagnostic onto errs rather than stopping at the first failure;
// the returned PietAsm is only meaningful when errs.ErrorOrNil() == nil.
func Parse(lines []ppLine) (*PietAsm, error) {
	p := &parser{
		labelIDs:   make(map[string]LabelID),
		jumpCounts: make(map[LabelID]int),
		firstJump:  make(map[LabelID]int),
		defined:    make(map[LabelID]bool),
	}
	for _, pl := range lines {
		p.parseLine(pl)
	}
	p.checkMissingLabels()

	if p.errs.ErrorOrNil() != nil {
		return nil, p.errs.ErrorOrNil()
	}
	return &PietAsm{Cmds: p.cmds, JumpCounts: p.jumpCounts}, nil
}

type parser struct {
	cmds       []Cmd
	labelIDs   map[string]LabelID
	jumpCounts map[LabelID]int
	firstJump  map[LabelID]int // first line referencing an id, for MissingLabel
	defined    map[LabelID]bool
	nextID     LabelID
	errs       *multierror.Error
}

func (p *parser) intern(name string) LabelID {
	if id, ok := p.labelIDs[name]; ok {
		return id
	}
	id := p.nextID
	p.nextID++
	p.labelIDs[name] = id
	return id
}

func (p *parser) parseLine(pl ppLine) {
	if pl.stmt.isLabel {
		id := p.intern(pl.stmt.label)
		if p.defined[id] {
			p.errs = multierror.Append(p.errs, &DuplicateLabelError{errAt(pl.line), pl.stmt.label})
			return
		}
		p.defined[id] = true
		p.cmds = append(p.cmds, label(id))
		return
	}

	switch pl.stmt.mnemon {
	case "PUSH":
		p.parsePush(pl)
	case "POP":
		p.parseFixed(pl, MPop)
	case "DUP":
		p.parseFixed(pl, MDuplicate)
	case "INNUM":
		p.parseFixed(pl, MInNum)
	case "INCHAR":
		p.parseFixed(pl, MInChar)
	case "STOP":
		p.parseFixed(pl, MStop)
	case "NOT":
		p.parsePrepend(pl, MNot, 0, 1)
	case "OUTNUM":
		p.parsePrepend(pl, MOutNum, 0, 1)
	case "OUTCHAR":
		p.parsePrepend(pl, MOutChar, 0, 1)
	case "ADD":
		p.parsePrepend(pl, MAdd, 0, 2)
	case "SUB":
		p.parsePrepend(pl, MSubtract, 0, 2)
	case "MUL":
		p.parsePrepend(pl, MMultiply, 0, 2)
	case "DIV":
		p.parsePrepend(pl, MDivide, 0, 2)
	case "MOD":
		p.parsePrepend(pl, MMod, 0, 2)
	case "GREATER":
		p.parsePrepend(pl, MGreater, 0, 2)
	case "ROLL":
		p.parsePrepend(pl, MRoll, 0, 2)
	case "JUMP":
		p.parseJump(pl, false)
	case "JUMPIF":
		p.parseJump(pl, true)
	default:
		p.errs = multierror.Append(p.errs, &UnrecognizedCommandError{errAt(pl.line), pl.stmt.mnemon})
	}
}

func (p *parser) parsePush(pl ppLine) {
	if len(pl.stmt.args) < 1 {
		p.errs = multierror.Append(p.errs, &WrongArgumentCountError{errAt(pl.line), len(pl.stmt.args), 1, -1})
		return
	}
	for _, a := range pl.stmt.args {
		n, ok := p.intArg(pl.line, a)
		if !ok {
			return
		}
		p.cmds = append(p.cmds, push(n))
	}
}

func (p *parser) parseFixed(pl ppLine, op Mnemonic) {
	if len(pl.stmt.args) != 0 {
		p.errs = multierror.Append(p.errs, &WrongArgumentCountError{errAt(pl.line), len(pl.stmt.args), 0, 0})
		return
	}
	p.cmds = append(p.cmds, simple(op))
}

// parsePrepend implements the "0..max int args, each prepended as a
// Push, then the opcode" lowering rule shared by NOT/OUTNUM/OUTCHAR
// (max=1) and ADD/SUB/MUL/DIV/MOD/GREATER/ROLL (max=2).
func (p *parser) parsePrepend(pl ppLine, op Mnemonic, min, max int) {
	n := len(pl.stmt.args)
	if n < min || n > max {
		p.errs = multierror.Append(p.errs, &WrongArgumentCountError{errAt(pl.line), n, min, max})
		return
	}
	for _, a := range pl.stmt.args {
		v, ok := p.intArg(pl.line, a)
		if !ok {
			return
		}
		p.cmds = append(p.cmds, push(v))
	}
	p.cmds = append(p.cmds, simple(op))
}

func (p *parser) parseJump(pl ppLine, conditional bool) {
	if len(pl.stmt.args) != 1 {
		p.errs = multierror.Append(p.errs, &WrongArgumentCountError{errAt(pl.line), len(pl.stmt.args), 1, 1})
		return
	}
	a := pl.stmt.args[0]
	if a.kind != tokLabel {
		p.errs = multierror.Append(p.errs, &TypeError{errAt(pl.line), a.text})
		return
	}
	id := p.intern(a.text)
	if _, seen := p.firstJump[id]; !seen {
		p.firstJump[id] = pl.line
	}
	p.jumpCounts[id]++
	if conditional {
		p.cmds = append(p.cmds, simple(MNot), simple(MNot), jumpIf(id))
	} else {
		p.cmds = append(p.cmds, jump(id))
	}
}

// intArg validates that a token is a Num and returns its value. A Label
// token is a TypeError (wrong token kind for this position); a Var
// token surviving to the parser means it referenced no enclosing EACH
// frame.
func (p *parser) intArg(line int, a token) (*big.Int, bool) {
	switch a.kind {
	case tokNum:
		return a.num, true
	case tokVar:
		p.errs = multierror.Append(p.errs, &UnboundVarError{errAt(line), a.text})
		return nil, false
	default:
		p.errs = multierror.Append(p.errs, &TypeError{errAt(line), a.text})
		return nil, false
	}
}

func (p *parser) checkMissingLabels() {
	for name, id := range p.labelIDs {
		if !p.defined[id] {
			ln := p.firstJump[id]
			p.errs = multierror.Append(p.errs, &MissingLabelError{errAt(ln), name})
		}
	}
}
