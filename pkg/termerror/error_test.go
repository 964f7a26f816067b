package termerror

import (
	"errors"
	"io"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := New(KindConfig, "command cannot be empty")
	if e.Error() != "config: command cannot be empty" {
		t.Fatalf("Error() = %q", e.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	e := Wrap(KindIO, "pty read failed", io.ErrUnexpectedEOF)
	if !errors.Is(e, io.ErrUnexpectedEOF) {
		t.Fatalf("wrapped cause not reachable via errors.Is")
	}
	var te *Error
	if !errors.As(e, &te) || te.Kind != KindIO {
		t.Fatalf("errors.As failed or kind = %v", te.Kind)
	}
}
