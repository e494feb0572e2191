package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/pavanmanishd/dynamic"
	"github.com/spf13/cobra"
)

type scenario func(w io.Writer, st *dynamic.Stack) error

func scenarioCmd(use, short string, run scenario) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), st)
		},
	}
}

// at reports an out-of-range index as an error instead of a panic.
func at[T any](l dynamic.List[T], idx int) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			be, ok := r.(*dynamic.BoundsError)
			if !ok {
				panic(r)
			}
			err = be
		}
	}()
	return l.At(idx), nil
}

func runLists(w io.Writer, st *dynamic.Stack) error {
	defer st.Enter().Exit()

	// words outlives the frame and is freed by hand.
	words := dynamic.Detach(st, dynamic.New[string](st, 0))
	if words.IsNil() {
		return fmt.Errorf("lists: %w", dynamic.ErrOutOfMemory)
	}
	for _, s := range []string{"hello ", "world ", "from ", "nowhere!"} {
		words = words.Append(s)
	}
	defer words.Free()
	fmt.Fprintf(w, "my list: %s\n", dynamic.Stringify(words, "%s"))

	nums := dynamic.Of(st, 1.0, 3.0, 5.0, 7.0, 9.0)
	if nums.IsNil() {
		return fmt.Errorf("lists: %w", dynamic.ErrOutOfMemory)
	}
	fmt.Fprintf(w, "list -> %s\n", dynamic.Stringify(nums, "%.2lf"))
	for _, idx := range []int{3, -1, 12} {
		x, err := at(nums, idx)
		var be *dynamic.BoundsError
		if errors.As(err, &be) {
			fmt.Fprintf(w, "list[%d] -> %v\n", idx, be)
			continue
		}
		fmt.Fprintf(w, "list[%d] = %f\n", idx, x)
	}
	fmt.Fprintf(w, "every other -> %s\n", dynamic.Stringify(nums.Slice(0, 5, 2), "%g"))
	return nil
}

func upperLabel(st *dynamic.Stack, s dynamic.Text) dynamic.Text {
	defer st.Enter().Exit()
	upper := dynamic.NewText(st, "this is upper: ").Concat(s.Upper())
	return dynamic.Promote(st, upper)
}

func runText(w io.Writer, st *dynamic.Stack) error {
	defer st.Enter().Exit()

	c := dynamic.NewText(st, "hey yo").Concat(dynamic.NewText(st, " yo what!!"))
	fmt.Fprintf(w, "this is concatenated: %s\n", c)

	s := dynamic.NewText(st, "abcd1234")
	fmt.Fprintf(w, "this is a slice: %s\n", s.Slice(0, 7, 2))
	fmt.Fprintln(w, upperLabel(st, c))
	fmt.Fprintln(w, dynamic.Stringify(s.List(), "%c"))

	parts := dynamic.NewText(st, "  a, b, c  ").Strip(dynamic.Whitespace).Split(dynamic.NewText(st, ", "))
	fmt.Fprintf(w, "split -> %s\n", dynamic.Stringify(parts, "%s"))
	return nil
}

func runNested(w io.Writer, st *dynamic.Stack) error {
	defer st.Enter().Exit()

	nested := dynamic.New[dynamic.List[float64]](st, 0)
	nested = nested.Append(dynamic.Of(st, 1.0, 2.0, 3.0))
	nested = nested.Append(dynamic.Of(st, 4.0, 5.0, 6.0))
	nested = nested.Append(dynamic.Of(st, 7.0, 8.0, 9.0, 10.0))
	nested = nested.Append(dynamic.Of(st, 3.0))
	fmt.Fprintf(w, "nested list -> %s\n", dynamic.Stringify(nested, "[%.2lf"))
	return nil
}

func runFrames(w io.Writer, st *dynamic.Stack) error {
	defer st.Enter().Exit()

	squares := dynamic.Run(st, func() dynamic.List[int] {
		tmp := dynamic.New[int](st, 0)
		for i := 1; i <= 5; i++ {
			tmp = tmp.Append(i * i)
		}
		return tmp.Copy()
	})
	m := st.Metrics()
	fmt.Fprintf(w, "squares %v at depth %d, %d record(s) in frame\n", squares, m.Depth, m.FrameRecords)

	buf := st.Malloc(64)
	buf = st.Realloc(buf, 4096)
	fmt.Fprintf(w, "raw block of %d bytes, %d bytes tracked\n", len(buf), st.BytesInUse())
	return nil
}
