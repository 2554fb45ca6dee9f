package renderer

import "testing"

func TestUnwindRunsInReverse(t *testing.T) {
	var order []int
	var u Unwind
	u.Add(func() { order = append(order, 1) })
	u.Add(func() { order = append(order, 2) })

	u.Unwind()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("Expected [2 1], got %v", order)
	}
	u.Unwind()
	if len(order) != 2 {
		t.Error("Expected a second Unwind to do nothing")
	}
}

func TestUnwindDiscard(t *testing.T) {
	ran := false
	var u Unwind
	u.Add(func() { ran = true })

	u.Discard()
	u.Unwind()

	if ran {
		t.Error("Expected discarded cleanups not to run")
	}
}
