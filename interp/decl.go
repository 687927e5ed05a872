package interp

import (
	"github.com/eightball-lang/eightball/lang"
)

// Sub is a subroutine's interpret-mode descriptor: where its body
// starts (the line right after `sub name(...)`) and its formal list,
// used both to bind actuals on `call` and to validate arity (§4.4).
type Sub struct {
	Name     string
	StartLn  int // 1-based line index of the first statement of the body
	EndLn    int // line index of the matching `endsub`
	Formals  []Formal
}

// Formal describes one declared parameter of a `sub` statement.
type Formal struct {
	Name  string
	Base  lang.BaseType
	Array bool // by-reference array formal, e.g. `word buf[]`
}

// Subs holds every subroutine discovered by a pre-scan of the program
// text (§4.4: subroutine names are significant before first call,
// since EightBall has no forward-declaration syntax of its own — the
// interpreter instead scans once before `run`).
type Subs struct {
	byName map[string]*Sub
}

func NewSubs() *Subs { return &Subs{byName: map[string]*Sub{}} }

func (s *Subs) Lookup(name string) (*Sub, bool) {
	sub, ok := s.byName[name]
	return sub, ok
}

func (s *Subs) Add(sub *Sub) error {
	if s.byName == nil {
		s.byName = map[string]*Sub{}
	}
	if _, dup := s.byName[sub.Name]; dup {
		return lang.ErrRedef
	}
	s.byName[sub.Name] = sub
	return nil
}

func (s *Subs) Reset() { s.byName = map[string]*Sub{} }

// declareScalar handles `word name = expr` / `byte name = expr`
// (§4.3). The declaration is local if ip.Frame != nil (inside a sub),
// else global.
func (ip *Interp) declareScalar(name string, base lang.BaseType, isConst bool, value int) error {
	if base == lang.Byte {
		value = int(int8(value))
	}
	v := &lang.Var{Name: name, Base: base, Const: isConst, Scalar: value}
	return ip.Vars.Declare(ip.Frame, v)
}

// declareArray handles `word name[n]` / `byte name[n]` with an
// optional `= "string"` initialiser for byte arrays (§4.3).
func (ip *Interp) declareArray(name string, base lang.BaseType, count int, init []int) error {
	if count <= 0 {
		return lang.ErrBadDim
	}
	elems := make([]int, count)
	for i, v := range init {
		if i >= count {
			break
		}
		if base == lang.Byte {
			v = int(int8(v))
		}
		elems[i] = v
	}
	v := &lang.Var{Name: name, Base: base, Array: true, Count: count, Elems: elems}
	return ip.Vars.Declare(ip.Frame, v)
}

// declareByRefFormal binds a `word name[]` / `byte name[]` formal to
// the caller's backing array directly, giving Go slice aliasing for
// free instead of copying (§3 "array-by-reference").
func (ip *Interp) declareByRefFormal(name string, base lang.BaseType, actual *lang.Var) error {
	v := &lang.Var{Name: name, Base: base, Array: true, Count: -1, ElemsRef: actual}
	return ip.Vars.Declare(ip.Frame, v)
}

// declareScalarFormal binds an ordinary by-value formal.
func (ip *Interp) declareScalarFormal(name string, base lang.BaseType, value int) error {
	return ip.declareScalar(name, base, false, value)
}

// assign implements `name = expr` and `name[idx] = expr` for an
// already-declared, non-const variable (§4.3).
func (ip *Interp) assign(v *lang.Var, idx int, indexed bool, value int) error {
	if v.Const {
		return lang.ErrAssignConst
	}
	if v.Base == lang.Byte {
		value = int(int8(value))
	}
	if indexed {
		if !v.Array {
			return lang.ErrVarExpected
		}
		return v.Set(idx, value)
	}
	if v.Array {
		return lang.ErrVarExpected
	}
	v.Scalar = value
	return nil
}
