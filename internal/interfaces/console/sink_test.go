package console

import (
	"bytes"
	"testing"
	"time"
)

func TestSinkWriteLine(t *testing.T) {
	var buf bytes.Buffer
	s := NewSinkTo(&buf)

	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	if err := s.WriteLine(ts, "[LEAN] algo model=null insights=2 targets=0"); err != nil {
		t.Fatalf("WriteLine failed: %v", err)
	}
	if err := s.NewLine(); err != nil {
		t.Fatalf("NewLine failed: %v", err)
	}

	want := "2024-01-02 15:04:05 [LEAN] algo model=null insights=2 targets=0\n\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
