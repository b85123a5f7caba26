package cpu

import (
	"fmt"
)

// DirectiveKind selects how the program counter advances after an
// instruction.
type DirectiveKind int

const (
	DIRECTIVE_SEQUENTIAL = DirectiveKind(0) // sequential
	DIRECTIVE_JUMP       = DirectiveKind(1) // jump
	DIRECTIVE_BRANCH     = DirectiveKind(2) // branch
	DIRECTIVE_NONE       = DirectiveKind(3) // none
)

func (dk DirectiveKind) String() string {
	switch dk {
	case DIRECTIVE_SEQUENTIAL:
		return "sequential"
	case DIRECTIVE_JUMP:
		return "jump"
	case DIRECTIVE_BRANCH:
		return "branch"
	case DIRECTIVE_NONE:
		return "none"
	}
	return fmt.Sprintf("DirectiveKind(%d)", int(dk))
}

// Directive tells the driver how to update the program counter.
// Offset is only meaningful for DIRECTIVE_JUMP and DIRECTIVE_BRANCH.
type Directive struct {
	Kind   DirectiveKind
	Offset int
}

var (
	Sequential = Directive{Kind: DIRECTIVE_SEQUENTIAL}
	NoBranch   = Directive{Kind: DIRECTIVE_NONE}
)

// AbsoluteJump is the directive for a jump to target.
func AbsoluteJump(target int) Directive {
	return Directive{Kind: DIRECTIVE_JUMP, Offset: target}
}

// RelativeBranch is the directive for a taken branch.
func RelativeBranch(offset int) Directive {
	return Directive{Kind: DIRECTIVE_BRANCH, Offset: offset}
}

// Apply returns the program counter that follows pc.
//
// Jump and branch offsets are byte scaled but are added to the
// instruction indexed pc unchanged.
func (dir Directive) Apply(pc int) int {
	switch dir.Kind {
	case DIRECTIVE_JUMP, DIRECTIVE_BRANCH:
		return pc + dir.Offset
	}
	return pc + 1
}

func (dir Directive) String() string {
	switch dir.Kind {
	case DIRECTIVE_JUMP, DIRECTIVE_BRANCH:
		return fmt.Sprintf("%v(%+d)", dir.Kind, dir.Offset)
	}
	return dir.Kind.String()
}
