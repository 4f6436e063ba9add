package sbct11

import "testing"

func TestInterruptPriorityMasking(t *testing.T) {
	ic := NewInterruptController()
	ic.Channel(1, IntEdge, "br4")   // BR4
	ic.Channel(011, IntEdge, "br6") // BR6
	ic.Raise(1, true)
	ic.Raise(011, true)

	// both beat priority 0; the lower line number wins
	if line, ok := ic.FindRequest(0); !ok || line != 1 {
		t.Fatalf("psw 0: line %d %v", line, ok)
	}
	// at priority 4 only the BR6 line qualifies
	if line, ok := ic.FindRequest(0200); !ok || line != 011 {
		t.Fatalf("psw 200: line %d %v", line, ok)
	}
	// at priority 6 nothing does: BR must be strictly greater
	if line, ok := ic.FindRequest(0300); ok {
		t.Fatalf("psw 300 returned line %d", line)
	}
	if line, ok := ic.FindRequest(0340); ok {
		t.Fatalf("psw 340 returned line %d", line)
	}
}

// FindRequest is pure: asking does not change the answer.
func TestFindRequestDoesNotMutate(t *testing.T) {
	ic := NewInterruptController()
	ic.Channel(3, IntEdge, "dev")
	ic.Raise(3, true)
	for i := 0; i < 3; i++ {
		if line, ok := ic.FindRequest(0); !ok || line != 3 {
			t.Fatalf("ask %d: line %d %v", i, line, ok)
		}
	}
	if !ic.Requested(3) {
		t.Fatal("request vanished")
	}
}

func TestEdgeVersusLevelAcknowledge(t *testing.T) {
	ic := NewInterruptController()
	ic.Channel(1, IntEdge, "edge")
	ic.Channel(2, IntLevel, "level")

	ic.Raise(1, true)
	ic.Raise(1, false) // deassert is ignored on an edge line
	if !ic.Requested(1) {
		t.Fatal("edge latch lost")
	}
	ic.Acknowledge(1)
	if ic.Requested(1) {
		t.Fatal("edge latch survived acknowledge")
	}

	ic.Raise(2, true)
	ic.Acknowledge(2) // level lines ignore acknowledge
	if !ic.Requested(2) {
		t.Fatal("level request cleared by acknowledge")
	}
	ic.Raise(2, false) // the device drops the wire
	if ic.Requested(2) {
		t.Fatal("level request stuck")
	}
}

func TestInterruptVectorTable(t *testing.T) {
	ic := NewInterruptController()
	for _, tc := range []struct {
		line   int
		vector uint16
		level  uint16
	}{
		{1, 0070, 0200},
		{2, 0064, 0200},
		{3, 0060, 0200},
		{4, 0134, 0240},
		{5, 0130, 0240},
		{6, 0124, 0240},
		{7, 0120, 0240},
		{011, 0100, 0300},
	} {
		if got := ic.Vector(tc.line); got != tc.vector {
			t.Fatalf("line %d: vector %03o, want %03o", tc.line, got, tc.vector)
		}
		if got := intTable[tc.line].level; got != tc.level {
			t.Fatalf("line %d: level %03o, want %03o", tc.line, got, tc.level)
		}
	}
}

// Reserved lines can be raised but never win arbitration.
func TestReservedLinesNeverWin(t *testing.T) {
	ic := NewInterruptController()
	ic.Channel(015, IntEdge, "spare")
	ic.Raise(015, true)
	if line, ok := ic.FindRequest(0); ok {
		t.Fatalf("reserved line %d won arbitration", line)
	}
}

func TestClearAll(t *testing.T) {
	ic := NewInterruptController()
	ic.Channel(1, IntEdge, "a")
	ic.Channel(2, IntLevel, "b")
	ic.Raise(1, true)
	ic.Raise(2, true)
	ic.ClearAll()
	if ic.Requested(1) || ic.Requested(2) {
		t.Fatal("ClearAll left a request")
	}
	// modes survive
	ic.Raise(1, true)
	ic.Raise(1, false)
	if !ic.Requested(1) {
		t.Fatal("ClearAll changed the trigger mode")
	}
}

func TestNilChannelIsSafe(t *testing.T) {
	var ch *IntChannel
	ch.Set(true) // must not panic
	if ch.Line() != 0 {
		t.Fatal("nil channel has a line")
	}
}
