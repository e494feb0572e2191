package dynamic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardCollectsOnReturn(t *testing.T) {
	st := newTestStack(t, Config{})
	var inner List[int]
	func() {
		defer st.Enter().Exit()
		inner = Of(st, 1, 2, 3)
		require.Equal(t, 2, st.Depth())
	}()
	require.Equal(t, 1, st.Depth())
	require.False(t, inner.Valid())
}

func TestGuardCollectsOnPanic(t *testing.T) {
	st := newTestStack(t, Config{})
	var inner List[int]
	r := recovered(func() {
		defer st.Enter().Exit()
		inner = Of(st, 1)
		st.PushFrame() // left open by the panic
		panic("boom")
	})
	require.Equal(t, "boom", r)
	require.Equal(t, 1, st.Depth())
	require.False(t, inner.Valid())
}

func TestRunPromotesResult(t *testing.T) {
	st := newTestStack(t, Config{})
	var tmp List[int]
	out := Run(st, func() List[int] {
		tmp = Of(st, 1, 2, 3)
		return tmp.Repeat(2)
	})
	require.Equal(t, 1, st.Depth())
	require.False(t, tmp.Valid())
	require.Equal(t, []int{1, 2, 3, 1, 2, 3}, out.Values())
	require.True(t, st.Tracked(out.Addr()))
}

func TestRunAfterEarlyPromote(t *testing.T) {
	st := newTestStack(t, Config{})
	st.PushFrame()
	out := Run(st, func() Text {
		return NewText(st, "kept")
	})
	require.Equal(t, 2, st.Depth(), "only the Run frame is collected")
	require.Equal(t, "kept", out.String())
}

func TestDetach(t *testing.T) {
	st := newTestStack(t, Config{})
	var kept List[int]
	st.Do(func() {
		kept = Detach(st, Of(st, 7))
		require.Zero(t, st.FrameLen())
	})
	require.True(t, kept.Valid())
	require.Equal(t, 7, kept.At(0))
	require.False(t, st.Tracked(kept.Addr()))
	kept.Free()
	require.False(t, kept.Valid())
}

func TestPromoteIntoCaller(t *testing.T) {
	st := newTestStack(t, Config{})
	st.PushFrame()
	st.PushFrame()
	s := NewText(st, "x")
	Promote(st, s)
	require.Equal(t, 2, st.Depth())
	require.True(t, st.Tracked(s.Addr()))
}

func TestDoCollects(t *testing.T) {
	st := newTestStack(t, Config{})
	var b []byte
	st.Do(func() {
		b = st.Malloc(64)
		require.Equal(t, int64(64), st.BytesInUse())
	})
	require.NotNil(t, b)
	require.Zero(t, st.BytesInUse())
	require.Equal(t, 1, st.Depth())
}
