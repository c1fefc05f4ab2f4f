package debug

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campmap/campmap/internal/editor"
	"github.com/campmap/campmap/internal/event"
	"github.com/campmap/campmap/internal/model"
)

func newTestSession(t *testing.T) *editor.Session {
	t.Helper()
	s, err := editor.NewSession(editor.Options{
		MapID:  "map-1",
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSnapshotReflectsSessionState(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	mod := model.Module{ID: "p1", Kind: model.KindPitch, Size: model.Size{Width: 10, Height: 5}, Visible: true}
	if r := s.Execute(ctx, editor.NewAddCommand(s.Store, mod)); !r.Success {
		t.Fatalf("add: %v", r.Err)
	}

	report := Snapshot(s)
	if report.SessionID != s.ID {
		t.Errorf("expected session ID %s, got %s", s.ID, report.SessionID)
	}
	if report.Modules != 1 {
		t.Errorf("expected 1 module, got %d", report.Modules)
	}
	if report.History.UndoDepth != 1 || report.History.RedoDepth != 0 {
		t.Errorf("unexpected history depths: %+v", report.History)
	}
	if len(report.History.Undo) != 1 || report.History.Undo[0].Description != "Add p1" {
		t.Errorf("unexpected undo entries: %+v", report.History.Undo)
	}
	if report.Bus.Emitted == 0 {
		t.Error("expected emissions recorded in bus stats")
	}
}

func TestFindLeaks(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	nop := event.HandlerFunc(func(_ context.Context, _ event.Payload) error { return nil })
	for i := 0; i < 5; i++ {
		if _, err := bus.On("module:move", nop); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
	}
	if _, err := bus.On("module:resize", nop); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	leaks := FindLeaks(bus, 3)
	if len(leaks) != 1 {
		t.Fatalf("expected one leak, got %v", leaks)
	}
	if leaks[0].Topic != "module:move" || leaks[0].Listeners != 5 {
		t.Errorf("unexpected leak: %+v", leaks[0])
	}

	if leaks := FindLeaks(bus, 10); len(leaks) != 0 {
		t.Errorf("expected no leaks at higher threshold, got %v", leaks)
	}
}

func TestMonitorReportsGrowth(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	nop := event.HandlerFunc(func(_ context.Context, _ event.Payload) error { return nil })
	if _, err := bus.On("module:move", nop); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	mon := NewMonitor(bus)

	// A removed listener balances out; only net growth is reported.
	sub, _ := bus.On("module:resize", nop)
	_ = bus.Off(sub)
	for i := 0; i < 2; i++ {
		if _, err := bus.On("module:move", nop); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
	}

	grown := mon.Diff()
	if len(grown) != 1 {
		t.Fatalf("expected one grown topic, got %v", grown)
	}
	if grown[0].Topic != "module:move" || grown[0].Before != 1 || grown[0].After != 3 {
		t.Errorf("unexpected growth: %+v", grown[0])
	}
}
