package logging

import "testing"

type entry struct {
	level   Level
	message string
	params  []interface{}
}

type collectingSink struct {
	entries []entry
}

func (s *collectingSink) Write(level Level, message string, params []interface{}) {
	s.entries = append(s.entries, entry{level, message, params})
}

func TestLogBeforeReadyIsDropped(t *testing.T) {
	d := NewDispatcher()
	s := &collectingSink{}
	d.Register(s)

	d.Log(Info, "too early")
	if len(s.entries) != 0 {
		t.Errorf("expected no entries before Ready, got %d", len(s.entries))
	}
}

func TestLogAfterReadyReachesSinks(t *testing.T) {
	d := NewDispatcher()
	s := &collectingSink{}
	d.Register(s)
	d.Ready()

	d.Log(Info, "hello", "k", "v")
	if len(s.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(s.entries))
	}
	if s.entries[0].message != "hello" {
		t.Errorf("message = %q, want %q", s.entries[0].message, "hello")
	}
}

func TestLogFiltersBelowLevel(t *testing.T) {
	d := NewDispatcher()
	s := &collectingSink{}
	d.Register(s)
	d.SetLevel(Warning)
	d.Ready()

	d.Log(Info, "should be dropped")
	d.Log(Error, "should pass")
	if len(s.entries) != 1 {
		t.Fatalf("expected 1 entry past the Warning threshold, got %d", len(s.entries))
	}
	if s.entries[0].message != "should pass" {
		t.Errorf("message = %q, want %q", s.entries[0].message, "should pass")
	}
}

func TestRegisterAfterReadyIsIgnored(t *testing.T) {
	d := NewDispatcher()
	d.Ready()
	s := &collectingSink{}
	d.Register(s)

	d.Log(Info, "hi")
	if len(s.entries) != 0 {
		t.Errorf("a sink registered after Ready should never receive entries, got %d", len(s.entries))
	}
}

func TestTeardownStopsFurtherLogging(t *testing.T) {
	d := NewDispatcher()
	s := &collectingSink{}
	d.Register(s)
	d.Ready()
	d.Log(Info, "before teardown")
	d.Teardown()
	d.Log(Info, "after teardown")

	if len(s.entries) != 1 {
		t.Errorf("expected only the pre-teardown entry, got %d", len(s.entries))
	}
}

func TestFanOutReachesEverySink(t *testing.T) {
	d := NewDispatcher()
	a, b := &collectingSink{}, &collectingSink{}
	d.Register(a)
	d.Register(b)
	d.Ready()

	d.Log(Info, "broadcast")
	if len(a.entries) != 1 || len(b.entries) != 1 {
		t.Errorf("expected both sinks to receive the entry: a=%d b=%d", len(a.entries), len(b.entries))
	}
}
