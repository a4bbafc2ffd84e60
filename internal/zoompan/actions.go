package zoompan

import (
	"fmt"
	"strings"

	"media-gallery/internal/gesture"
)

// Action is a bindable behavior triggered by a tap or a swipe.
type Action string

const (
	ActionNone       Action = "none"
	ActionToggleUI   Action = "toggle_ui"
	ActionShowUI     Action = "show_ui"
	ActionHideUI     Action = "hide_ui"
	ActionPlayPause  Action = "play_pause"
	ActionZoomInOut  Action = "zoom_in_out"
	ActionCycleZoom  Action = "cycle_zoom"
	ActionZoom       Action = "zoom"
	ActionBrightness Action = "brightness"
	ActionVolume     Action = "volume"
)

var allActions = []Action{
	ActionNone, ActionToggleUI, ActionShowUI, ActionHideUI, ActionPlayPause,
	ActionZoomInOut, ActionCycleZoom, ActionZoom, ActionBrightness, ActionVolume,
}

// ParseAction validates an action name from configuration.
func ParseAction(s string) (Action, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return ActionNone, nil
	}
	for _, a := range allActions {
		if string(a) == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

// Continuous reports whether the action adjusts a value continuously
// during a swipe.
func (a Action) Continuous() bool {
	switch a {
	case ActionZoom, ActionBrightness, ActionVolume:
		return true
	}
	return false
}

// UI reports whether the action shows or hides the overlay.
func (a Action) UI() bool {
	switch a {
	case ActionToggleUI, ActionShowUI, ActionHideUI:
		return true
	}
	return false
}

// ActionTable maps taps and swipes to actions. Swipe is indexed by
// [gesture.Side][gesture.Direction].
type ActionTable struct {
	SingleTap Action
	DoubleTap Action
	Swipe     [2][2]Action
}

// DefaultActionTable returns the default bindings: single tap toggles the
// overlay, double tap zooms, the left half shows or hides the overlay and
// the right half adjusts brightness.
func DefaultActionTable() ActionTable {
	t := ActionTable{
		SingleTap: ActionToggleUI,
		DoubleTap: ActionZoomInOut,
	}
	t.Swipe[gesture.SideLeft][gesture.DirectionUp] = ActionShowUI
	t.Swipe[gesture.SideLeft][gesture.DirectionDown] = ActionHideUI
	t.Swipe[gesture.SideRight][gesture.DirectionUp] = ActionBrightness
	t.Swipe[gesture.SideRight][gesture.DirectionDown] = ActionBrightness
	return t
}

// SwipeAction returns the action bound to a swipe.
func (t ActionTable) SwipeAction(side gesture.Side, dir gesture.Direction) Action {
	if side < 0 || side > 1 || dir < 0 || dir > 1 {
		return ActionNone
	}
	if a := t.Swipe[side][dir]; a != "" {
		return a
	}
	return ActionNone
}

// SetSwipe binds a swipe.
func (t *ActionTable) SetSwipe(side gesture.Side, dir gesture.Direction, a Action) {
	t.Swipe[side][dir] = a
}
