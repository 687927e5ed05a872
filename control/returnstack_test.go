package control_test

import (
	"testing"

	"github.com/eightball-lang/eightball/control"
	"github.com/stretchr/testify/require"
)

func TestStackPushPopOrder(t *testing.T) {
	var s control.Stack
	s.Push(control.Frame{Tag: control.TagIf})
	s.Push(control.Frame{Tag: control.TagWhile})

	require.Equal(t, 2, s.Len())
	require.True(t, s.TopIs(control.TagWhile))

	f, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, control.TagWhile, f.Tag)
	require.True(t, s.TopIs(control.TagIf))
}

func TestStackUnwindToCall(t *testing.T) {
	var s control.Stack
	s.Push(control.Frame{Tag: control.TagCall, CallerLine: 5})
	s.Push(control.Frame{Tag: control.TagIf})
	s.Push(control.Frame{Tag: control.TagForWord})

	f, ok := s.UnwindToCall()
	require.True(t, ok)
	require.Equal(t, control.TagCall, f.Tag)
	require.Equal(t, 5, f.CallerLine)
	require.Equal(t, 0, s.Len())
}

func TestStackUnwindToCallEmpty(t *testing.T) {
	var s control.Stack
	s.Push(control.Frame{Tag: control.TagIf})
	_, ok := s.UnwindToCall()
	require.False(t, ok)
	require.Equal(t, 0, s.Len())
}

func TestStackReset(t *testing.T) {
	var s control.Stack
	s.Push(control.Frame{Tag: control.TagCall})
	s.Reset()
	require.Equal(t, 0, s.Len())
	require.Nil(t, s.Top())
}
