package progress

import (
	"bytes"
	"testing"
)

func TestNew_Disabled(t *testing.T) {
	r := New(false, "x")
	if _, ok := r.(Nop); !ok {
		t.Fatalf("expected Nop, got %T", r)
	}
	r.Start(3)
	r.Increment()
	r.Finish()
}

func TestBar_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	b := &Bar{desc: "ingesting", writer: &buf}
	b.Start(2)
	b.Increment()
	b.Increment()
	b.Finish()
	if buf.Len() == 0 {
		t.Error("expected progress output")
	}
}

func TestBar_ZeroTotalIsNoop(t *testing.T) {
	var buf bytes.Buffer
	b := &Bar{desc: "empty", writer: &buf}
	b.Start(0)
	b.Increment()
	b.Finish()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestStartSpinner_Disabled(t *testing.T) {
	stop := StartSpinner(false, "loading")
	stop()
}
