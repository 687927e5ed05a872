package lang

// BaseType distinguishes the two scalar widths EightBall knows about
// (§1 Non-goals: no floating point, word/byte only).
type BaseType byte

const (
	Word BaseType = iota
	Byte
)

func (b BaseType) String() string {
	if b == Byte {
		return "byte"
	}
	return "word"
}

// Significant name-prefix lengths (§3, design note 9): 4 for
// variables, 8 for subroutines. Widening these is fine as long as
// declaration, call and lookup agree.
const (
	VarNameLen = 4
	SubNameLen = 8
)

// byRefSentinel marks an array descriptor's element count as
// "pass-by-reference": the body pointer is itself stored indirectly
// (§3).
const byRefSentinel = -1

// Var is the variable descriptor of §3: name, packed type, and a
// payload that differs by evaluator mode. Both interpret-mode and
// compile-mode payloads live on the same struct (rather than a tagged
// union) because only one half is ever touched per run — the mode is
// carried by whichever Engine declared the variable.
type Var struct {
	Next *Var

	// Marker frames delimit a call activation; all other fields are
	// meaningless on a marker.
	Marker   bool
	PrevTail *Var

	Name    string
	Const   bool
	Array   bool
	Base    BaseType
	Count   int // array length; byRefSentinel for pass-by-reference formals

	// interpreter payload
	Scalar   int
	Elems    []int // owned array body
	ElemsRef *Var  // pass-by-reference: points at the Var owning Elems

	// compiler payload
	Addr  int  // absolute (global) or frame-relative (local) address
	Local bool // true when Addr is relative to the active frame pointer
}

func (v *Var) IsByRef() bool { return v.Array && v.Count == byRefSentinel }

// backing returns the Var whose Elems actually holds the array body,
// following one level of by-reference indirection (§3).
func (v *Var) backing() *Var {
	if v.IsByRef() && v.ElemsRef != nil {
		return v.ElemsRef
	}
	return v
}

func (v *Var) Get(idx int) (int, error) {
	b := v.backing()
	if idx < 0 || idx >= len(b.Elems) {
		return 0, ErrBadIdx
	}
	return b.Elems[idx], nil
}

func (v *Var) Set(idx int, val int) error {
	b := v.backing()
	if idx < 0 || idx >= len(b.Elems) {
		return ErrBadIdx
	}
	b.Elems[idx] = val
	return nil
}

// Table is the singly linked variable list of §3: append-only during
// a frame's lifetime, with O(1) teardown via the frame marker's
// PrevTail pointer.
type Table struct {
	head *Var
	tail *Var
}

func (t *Table) append(v *Var) {
	if t.tail == nil {
		t.head = v
	} else {
		t.tail.Next = v
	}
	t.tail = v
}

// PushFrame appends a new frame marker and returns it; the caller
// keeps it to later call PopFrame, and to anchor local lookups.
func (t *Table) PushFrame() *Var {
	m := &Var{Marker: true, PrevTail: t.tail}
	t.append(m)
	return m
}

// PopFrame restores the list tail to what it was before marker was
// pushed, in O(1), discarding every local declared since (§3, §8 Bulk
// teardown).
func (t *Table) PopFrame(marker *Var) {
	t.tail = marker.PrevTail
	if t.tail == nil {
		t.head = nil
	} else {
		t.tail.Next = nil
	}
}

// Declare appends v after first checking for a redeclaration in the
// active scope. If frame is nil, the declaration is global and the
// duplicate check spans the whole global segment (head..first
// marker); otherwise it spans frame.Next..tail (§4.3).
func (t *Table) Declare(frame *Var, v *Var) error {
	start := t.head
	if frame != nil {
		start = frame.Next
	}
	for cur := start; cur != nil; cur = cur.Next {
		if cur.Marker {
			if frame == nil {
				break
			}
			continue
		}
		if cur.Name == v.Name {
			return ErrRedef
		}
	}
	t.append(v)
	return nil
}

// Lookup implements §4.3: walk from the local-frame marker forward; if
// not found and localOnly is false, walk from the global head up to
// the first frame marker. Returns the variable and whether it was
// found in the local (vs. global) segment.
func (t *Table) Lookup(frame *Var, name string, localOnly bool) (*Var, bool, bool) {
	if frame != nil {
		start := frame.Next
		for cur := start; cur != nil; cur = cur.Next {
			if !cur.Marker && cur.Name == name {
				return cur, true, true
			}
		}
	}
	if localOnly {
		return nil, false, false
	}
	for cur := t.head; cur != nil; cur = cur.Next {
		if cur.Marker {
			break
		}
		if cur.Name == name {
			return cur, false, true
		}
	}
	return nil, false, false
}

// Reset empties the table entirely (`clear`, §6).
func (t *Table) Reset() { t.head, t.tail = nil, nil }

// Walk visits every declared variable (skipping frame markers) in
// declaration order, used by `vars`/`free` reporting.
func (t *Table) Walk(fn func(v *Var)) {
	for cur := t.head; cur != nil; cur = cur.Next {
		if !cur.Marker {
			fn(cur)
		}
	}
}

// Count reports how many variables (not markers) are currently live.
func (t *Table) Count() int {
	n := 0
	t.Walk(func(*Var) { n++ })
	return n
}
