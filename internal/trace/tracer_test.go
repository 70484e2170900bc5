package trace

import (
	"bytes"
	"testing"
)

func TestDisabledTracerIsSilent(t *testing.T) {
	var buf bytes.Buffer
	tr := New(false, nil, &buf)
	tr.Instruction("h", 0, "PUSH_INT")
	tr.HandlerEnter("h")
	tr.HandlerExit("h", nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output while disabled, got %q", buf.String())
	}
}

func TestFilterGatesByGlob(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, []string{"on*"}, &buf)
	tr.HandlerEnter("offStage")
	if buf.Len() != 0 {
		t.Errorf("expected filter to suppress offStage, got %q", buf.String())
	}
	tr.HandlerEnter("onKeyDown")
	if buf.Len() == 0 {
		t.Error("expected onKeyDown to match filter")
	}
}

func TestCallbacksOverrideDefaultOutput(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, nil, &buf)
	var entered string
	tr.OnHandlerEnter(func(name string) { entered = name })
	tr.HandlerEnter("beginSprite")
	if entered != "beginSprite" {
		t.Errorf("callback got %q", entered)
	}
	if buf.Len() != 0 {
		t.Error("expected no default-format output once a callback is registered")
	}
}

func TestNilTracerIsSafe(t *testing.T) {
	var tr *Tracer
	tr.Instruction("h", 0, "RET")
	tr.HandlerEnter("h")
	tr.HandlerExit("h", nil)
	if tr.Paused() {
		t.Error("nil tracer should report not paused")
	}
}

func TestPauseResume(t *testing.T) {
	tr := New(true, nil, &bytes.Buffer{})
	if tr.Paused() {
		t.Fatal("should start unpaused")
	}
	tr.Pause()
	if !tr.Paused() {
		t.Error("expected paused after Pause()")
	}
	tr.Resume()
	if tr.Paused() {
		t.Error("expected unpaused after Resume()")
	}
}
