package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"media-gallery/internal/mediatypes"
	"media-gallery/internal/playback"
	"media-gallery/internal/timer"
)

type fakePlayer struct{}

func (fakePlayer) Prepare()     {}
func (fakePlayer) Play()        {}
func (fakePlayer) Pause()       {}
func (fakePlayer) SeekToStart() {}
func (fakePlayer) Release()     {}

type fakeFactory struct{ created int }

func (f *fakeFactory) Create(mediatypes.Descriptor, playback.Listener) (playback.Resource, error) {
	f.created++
	return fakePlayer{}, nil
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// newTestApp shows [green image, video] on a 40x11 screen: a 40x20 pixel
// viewport above one HUD row.
func newTestApp(t *testing.T) (*app, tcell.SimulationScreen, *fakeFactory) {
	t.Helper()
	dir := t.TempDir()
	img := filepath.Join(dir, "green.png")
	writePNG(t, img, 20, 20, color.RGBA{G: 255, A: 255})

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 11)

	factory := &fakeFactory{}
	a := newApp(screen, []mediatypes.Descriptor{
		mediatypes.NewDescriptor(img, 20, 20, 0),
		mediatypes.NewDescriptor(filepath.Join(dir, "clip.mp4"), 1920, 1080, 3*time.Second),
	}, factory, timer.NewManual(time.Unix(0, 0)))
	t.Cleanup(a.close)
	return a, screen, factory
}

func hudText(screen tcell.SimulationScreen) string {
	cols, rows := screen.Size()
	var b strings.Builder
	for x := 0; x < cols; x++ {
		r, _, _, _ := screen.GetContent(x, rows-1)
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func TestViewportFromScreen(t *testing.T) {
	a, _, _ := newTestApp(t)
	vp := a.viewport()
	if vp.Width != 40 || vp.Height != 20 {
		t.Errorf("Expected a 40x20 viewport, got %vx%v", vp.Width, vp.Height)
	}
}

func TestDrawShowsImageAndHUD(t *testing.T) {
	a, screen, _ := newTestApp(t)
	a.tick(time.Unix(0, 0))

	r, _, style, _ := screen.GetContent(20, 5)
	if r != '▀' {
		t.Errorf("Expected a half block, got %q", r)
	}
	fg, _, _ := style.Decompose()
	if cr, cg, cb := fg.RGB(); cg < 200 || cr > 60 || cb > 60 {
		t.Errorf("Expected green content, got rgb(%d, %d, %d)", cr, cg, cb)
	}

	if hud := hudText(screen); !strings.HasPrefix(hud, "1/2 green.png") {
		t.Errorf("Expected the HUD to name the item, got %q", hud)
	}
}

func TestKeysNavigateAndZoom(t *testing.T) {
	a, screen, factory := newTestApp(t)

	a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))
	if tr, _, _ := a.gallery.Transform(0); tr.Scale <= 1 {
		t.Errorf("Expected c to zoom in, got %v", tr.Scale)
	}
	a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if tr, _, _ := a.gallery.Transform(0); tr.Scale != 1 {
		t.Errorf("Expected r to reset zoom, got %v", tr.Scale)
	}

	a.handleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if a.gallery.Focus() != 1 {
		t.Fatalf("Expected focus on item 1, got %d", a.gallery.Focus())
	}
	if factory.created != 1 || a.gallery.LiveCount() != 1 {
		t.Errorf("Expected one player for the video, got %d created", factory.created)
	}
	a.handleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if a.gallery.Focus() != 1 {
		t.Errorf("Expected focus to stay on the last item, got %d", a.gallery.Focus())
	}

	a.tick(time.Unix(1, 0))
	if hud := hudText(screen); !strings.Contains(hud, "preparing") {
		t.Errorf("Expected the HUD to show the player state, got %q", hud)
	}

	a.handleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if a.gallery.Focus() != 0 || a.gallery.LiveCount() != 0 {
		t.Errorf("Expected focus back on the image with no player, got %d/%d", a.gallery.Focus(), a.gallery.LiveCount())
	}
}

func TestReloadKey(t *testing.T) {
	a, _, factory := newTestApp(t)

	a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone))
	if factory.created != 0 {
		t.Errorf("Expected no player when reloading an image, got %d", factory.created)
	}

	a.handleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone))
	if factory.created != 2 {
		t.Errorf("Expected l to rebuild the video player, got %d created", factory.created)
	}
	if a.gallery.LiveCount() != 1 {
		t.Errorf("Expected one live player after reload, got %d", a.gallery.LiveCount())
	}
	if !a.gallery.UIVisible() {
		t.Error("Expected l to leave the HUD visible")
	}
}

func TestQuitKeys(t *testing.T) {
	a, _, _ := newTestApp(t)
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone),
	} {
		if !a.handleEvent(ev) {
			t.Errorf("Expected %s to quit", ev.Name())
		}
	}
	if a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Error("Expected an unbound key not to quit")
	}
}

func TestWheelZoomsAroundPointer(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.handleEvent(tcell.NewEventMouse(5, 5, tcell.WheelUp, tcell.ModNone))
	tr, _, _ := a.gallery.Transform(0)
	if tr.Scale <= 1 {
		t.Errorf("Expected the wheel to zoom in, got %v", tr.Scale)
	}
}

func TestTickRedrawsOnlyOnChange(t *testing.T) {
	a, screen, _ := newTestApp(t)
	a.tick(time.Unix(0, 0))

	screen.SetContent(0, 0, 'x', nil, tcell.StyleDefault)
	a.tick(time.Unix(1, 0))
	if r, _, _, _ := screen.GetContent(0, 0); r != 'x' {
		t.Errorf("Expected no redraw without changes, got %q", r)
	}

	a.gallery.CycleZoom(0)
	a.tick(time.Unix(2, 0))
	if r, _, _, _ := screen.GetContent(0, 0); r != '▀' {
		t.Errorf("Expected a redraw after zoom, got %q", r)
	}
}
