package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002

	// Parse
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectExpression Code = 2002
	SynExpectSemicolon  Code = 2003
	SynExpectIdentifier Code = 2004
	SynUnclosedParen    Code = 2005
	SynUnclosedBrace    Code = 2006
	SynInvalidAssign    Code = 2007

	// Resolution and emission limits
	CmpInfo                 Code = 3000
	CmpTooManyLocals        Code = 3001
	CmpTooManyUpvalues      Code = 3002
	CmpTooManyConstants     Code = 3003
	CmpTooManyArguments     Code = 3004
	CmpTooManyParameters    Code = 3005
	CmpJumpTooFar           Code = 3006
	CmpLoopTooFar           Code = 3007
	CmpDuplicateLocal       Code = 3008
	CmpOwnInitializer       Code = 3009
	CmpThisOutsideClass     Code = 3010
	CmpSuperOutsideClass    Code = 3011
	CmpSuperNoSuperclass    Code = 3012
	CmpReturnFromScript     Code = 3013
	CmpReturnFromInit       Code = 3014
	CmpSelfInherit          Code = 3015
	CmpInvalidAssignTarget  Code = 3016
	CmpTooManyClassNesting  Code = 3017
)

// String renders the code as "LOX1001" for stable machine-readable output.
func (c Code) String() string {
	return fmt.Sprintf("LOX%04d", uint16(c))
}
