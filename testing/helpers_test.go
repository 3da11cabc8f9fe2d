package testing

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/tide"
)

func TestWaitFor(t *testing.T) {
	start := time.Now()
	if !WaitFor(t, time.Second, func() bool { return time.Since(start) > 20*time.Millisecond }) {
		t.Error("expected condition to be met")
	}
	if WaitFor(t, 20*time.Millisecond, func() bool { return false }) {
		t.Error("expected timeout")
	}
}

func TestOutput_Lines(t *testing.T) {
	var out Output
	if lines := out.Lines(); lines != nil {
		t.Errorf("expected no lines, got %q", lines)
	}
	fmt.Fprintln(&out, "one")
	fmt.Fprintln(&out, "two")

	lines := out.Lines()
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("unexpected lines %q", lines)
	}
}

func TestRecorder_RecordsInOrder(t *testing.T) {
	rec := NewRecorder[int]()
	update := Wrap(rec, func(m, msg int) (int, tide.Cmd[int]) {
		return m + msg, tide.None[int]()
	})

	m := 0
	for i := 1; i <= 3; i++ {
		m, _ = update(m, i)
	}

	if m != 6 {
		t.Errorf("expected model 6, got %d", m)
	}
	if got := rec.Messages(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("unexpected messages %v", got)
	}
	if rec.Overlaps() != 0 {
		t.Errorf("expected no overlaps, got %d", rec.Overlaps())
	}
}

func TestRecorder_DetectsOverlap(t *testing.T) {
	rec := NewRecorder[int]()
	entered := make(chan struct{})
	release := make(chan struct{})
	update := Wrap(rec, func(m, msg int) (int, tide.Cmd[int]) {
		if msg == 1 {
			close(entered)
			<-release
		}
		return m, tide.None[int]()
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		update(0, 1)
	}()
	<-entered
	update(0, 2)
	close(release)
	wg.Wait()

	if rec.Overlaps() != 1 {
		t.Errorf("expected 1 overlap, got %d", rec.Overlaps())
	}
	if rec.Count() != 2 {
		t.Errorf("expected 2 calls, got %d", rec.Count())
	}
}

func TestRunFinite(t *testing.T) {
	p := tide.New(
		func() (int, tide.Cmd[int]) { return 0, tide.Immediate(1) },
		nil,
		func(m, msg int) (int, tide.Cmd[int]) { return m + msg, tide.None[int]() },
		nil,
	)
	RunFinite(t, p, time.Second)

	if p.Updates() != 1 {
		t.Errorf("expected 1 update, got %d", p.Updates())
	}
}

func TestRunAsync_StopIsRepeatable(t *testing.T) {
	p := tide.New(
		func() (int, tide.Cmd[int]) { return 0, tide.None[int]() },
		nil,
		func(m, _ int) (int, tide.Cmd[int]) { return m, tide.None[int]() },
		func(m int) (int, tide.Sub[int]) { return m, tide.FromChannel(make(<-chan int)) },
	)
	stop := RunAsync(t, p)

	first := stop()
	second := stop()
	if first == nil || first != second {
		t.Errorf("expected the same cancellation error twice, got %v and %v", first, second)
	}
}
