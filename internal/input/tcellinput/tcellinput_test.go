package tcellinput

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"

	"media-gallery/internal/gesture"
)

func actions(evs []gesture.PointerEvent) []gesture.Action {
	out := make([]gesture.Action, len(evs))
	for i, ev := range evs {
		out[i] = ev.Action
	}
	return out
}

func TestPressDragRelease(t *testing.T) {
	tr := New(10, 20)

	steps := []struct {
		name    string
		x, y    int
		buttons tcell.ButtonMask
		want    []gesture.Action
		px, py  float64
	}{
		{"press", 2, 3, tcell.Button1, []gesture.Action{gesture.ActionDown}, 25, 70},
		{"same cell", 2, 3, tcell.Button1, nil, 0, 0},
		{"drag", 4, 3, tcell.Button1, []gesture.Action{gesture.ActionMove}, 45, 70},
		{"release", 4, 5, tcell.ButtonNone, []gesture.Action{gesture.ActionUp}, 45, 110},
		{"hover", 6, 6, tcell.ButtonNone, nil, 0, 0},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			evs := tr.Translate(tcell.NewEventMouse(step.x, step.y, step.buttons, tcell.ModNone))
			got := actions(evs)
			if len(got) != len(step.want) {
				t.Fatalf("Expected %v, got %v", step.want, got)
			}
			for i := range got {
				if got[i] != step.want[i] {
					t.Errorf("Expected %v, got %v", step.want, got)
				}
			}
			if len(evs) == 1 {
				p, _ := evs[0].Primary()
				if p.X != step.px || p.Y != step.py {
					t.Errorf("Expected pointer at (%v, %v), got (%v, %v)", step.px, step.py, p.X, p.Y)
				}
			}
		})
	}
}

func TestWheelSynthesizesPinch(t *testing.T) {
	tests := []struct {
		name    string
		buttons tcell.ButtonMask
		factor  float64
	}{
		{"wheel up zooms in", tcell.WheelUp, DefaultWheelFactor},
		{"wheel down zooms out", tcell.WheelDown, 1 / DefaultWheelFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(1, 1)
			evs := tr.Translate(tcell.NewEventMouse(100, 200, tt.buttons, tcell.ModNone))

			in := gesture.NewInterpreter(gesture.DefaultConfig(), 400, 800)
			var scales []gesture.Intent
			for _, ev := range evs {
				for _, intent := range in.Handle(ev) {
					switch intent.Kind {
					case gesture.IntentScale:
						scales = append(scales, intent)
					case gesture.IntentTap, gesture.IntentDoubleTap:
						t.Errorf("Expected no tap from a wheel notch, got %v", intent.Kind)
					}
				}
			}

			if len(scales) != 1 {
				t.Fatalf("Expected 1 scale intent, got %d", len(scales))
			}
			s := scales[0]
			if math.Abs(s.Factor-tt.factor) > 1e-9 {
				t.Errorf("Expected factor %v, got %v", tt.factor, s.Factor)
			}
			if s.X != 100.5 || s.Y != 200.5 {
				t.Errorf("Expected focus at the mouse, got (%v, %v)", s.X, s.Y)
			}
			if in.Classification() != gesture.ClassIdle {
				t.Errorf("Expected gesture finished, got %v", in.Classification())
			}
			if _, pending := in.PendingTapDeadline(); pending {
				t.Error("Expected no pending tap")
			}
		})
	}
}

func TestWheelIgnoredWhilePressed(t *testing.T) {
	tr := New(1, 1)
	tr.Translate(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone))

	evs := tr.Translate(tcell.NewEventMouse(1, 1, tcell.Button1|tcell.WheelUp, tcell.ModNone))
	if len(evs) != 0 {
		t.Errorf("Expected no events, got %v", actions(evs))
	}
	if !tr.Pressed() {
		t.Error("Expected press to remain held")
	}
}

func TestCancel(t *testing.T) {
	tr := New(1, 1)
	if evs := tr.Cancel(); evs != nil {
		t.Errorf("Expected nothing to cancel, got %v", actions(evs))
	}

	tr.Translate(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModNone))
	evs := tr.Cancel()
	if len(evs) != 1 || evs[0].Action != gesture.ActionCancel {
		t.Fatalf("Expected a cancel event, got %v", actions(evs))
	}
	if tr.Pressed() {
		t.Error("Expected press released after cancel")
	}
}

func TestNilEvent(t *testing.T) {
	if evs := New(0, 0).Translate(nil); evs != nil {
		t.Errorf("Expected no events, got %v", evs)
	}
}
