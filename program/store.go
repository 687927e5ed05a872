// Package program implements the ordered line store of §3/§6: a
// singly linked list of source lines in insertion order, 1-based
// index, that the editor manipulates and `run`/`comp` iterate.
package program

import "github.com/eightball-lang/eightball/lang"

// line is heap-owned and exclusively owned by the Store (§3); Go's GC
// stands in for the original's "lines are never shared" ownership
// discipline.
type line struct {
	text string
	next *line
}

// Store is the program: an ordered sequence of lines. `new` resets it
// in O(1) (§5 "bulk reset operations only").
type Store struct {
	head *line
	n    int
}

// New empties the program store (`new`, §6).
func (s *Store) New() { s.head = nil; s.n = 0 }

// Len reports the number of lines currently stored.
func (s *Store) Len() int { return s.n }

func (s *Store) at(n int) *line {
	if n < 1 {
		return nil
	}
	cur := s.head
	for i := 1; cur != nil && i < n; i++ {
		cur = cur.next
	}
	return cur
}

// Line returns the text of line n (1-based), or "", false if out of
// range.
func (s *Store) Line(n int) (string, bool) {
	l := s.at(n)
	if l == nil {
		return "", false
	}
	return l.text, true
}

// Append adds text as a new final line.
func (s *Store) Append(text string) {
	nl := &line{text: text}
	if s.head == nil {
		s.head = nl
	} else {
		tail := s.head
		for tail.next != nil {
			tail = tail.next
		}
		tail.next = nl
	}
	s.n++
}

// InsertBefore inserts text immediately before line n (n=1 is the
// special "insert as new first line", §6).
func (s *Store) InsertBefore(n int, text string) error {
	if n < 1 || n > s.n+1 {
		return lang.ErrBadLine
	}
	nl := &line{text: text}
	if n == 1 {
		nl.next = s.head
		s.head = nl
		s.n++
		return nil
	}
	prev := s.at(n - 1)
	if prev == nil {
		return lang.ErrBadLine
	}
	nl.next = prev.next
	prev.next = nl
	s.n++
	return nil
}

// InsertAfter inserts text immediately after line n.
func (s *Store) InsertAfter(n int, text string) error {
	return s.InsertBefore(n+1, text)
}

// Change replaces the text of line n.
func (s *Store) Change(n int, text string) error {
	l := s.at(n)
	if l == nil {
		return lang.ErrBadLine
	}
	l.text = text
	return nil
}

// Delete removes lines [start, end] inclusive (`:d N[,M]`, §6).
func (s *Store) Delete(start, end int) error {
	if start < 1 || end < start || end > s.n {
		return lang.ErrBadLine
	}
	if start == 1 {
		cur := s.head
		for i := 1; i <= end && cur != nil; i++ {
			cur = cur.next
		}
		s.head = cur
	} else {
		prev := s.at(start - 1)
		if prev == nil {
			return lang.ErrBadLine
		}
		cur := prev
		for i := start; i <= end && cur.next != nil; i++ {
			cur = cur.next
		}
		prev.next = cur.next
	}
	s.n -= (end - start + 1)
	return nil
}

// Lines returns the full program as a slice, 1-based index implied by
// position, used by `:w`, `run`, and `comp`.
func (s *Store) Lines() []string {
	out := make([]string, 0, s.n)
	for cur := s.head; cur != nil; cur = cur.next {
		out = append(out, cur.text)
	}
	return out
}

// LoadLines replaces the whole store with lines, in order — used when
// `:r` reads a source file (§6).
func (s *Store) LoadLines(lines []string) {
	s.New()
	for _, l := range lines {
		if l == "" {
			continue
		}
		s.Append(l)
	}
}
