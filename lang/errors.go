package lang

import "errors"

// Mnemonic errors from §7. Each parse/execute routine returns one of
// these (or nil) rather than panicking.
var (
	ErrStackExhausted = errors.New("?complex")
	ErrVarExpected     = errors.New("?var expected")
	ErrRedef           = errors.New("?redef")
	ErrUndefined       = errors.New("?undef")
	ErrExpectedChar    = errors.New("?expected")
	ErrExtraInput      = errors.New("?extra")
	ErrBadDim          = errors.New("?bad dim")
	ErrBadIdx          = errors.New("?bad idx")
	ErrMidSub          = errors.New("?mid sub")
	ErrBadString       = errors.New("?bad string")
	ErrFileIO          = errors.New("?file")
	ErrBadLine         = errors.New("?bad line")
	ErrBadExpr         = errors.New("?bad expr")
	ErrBadNum          = errors.New("?bad num")
	ErrArgCount        = errors.New("?args")
	ErrDivZero         = errors.New("?div/0")
	ErrOutOfRange      = errors.New("?range")
	ErrAssignConst     = errors.New("?const")
	ErrConstRequired   = errors.New("?need const")
	ErrTooLong         = errors.New("?too long")
	ErrLink            = errors.New("?link")
	ErrBreak           = errors.New("?break")
	ErrConstCall       = errors.New("?const call")
)
