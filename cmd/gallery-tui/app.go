package main

import (
	"fmt"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"media-gallery/internal/gallery"
	"media-gallery/internal/input/tcellinput"
	"media-gallery/internal/logging"
	"media-gallery/internal/media"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/playback"
	"media-gallery/internal/render/ggsurface"
	"media-gallery/internal/timer"
	"media-gallery/internal/viewport"
	"media-gallery/internal/zoompan"
)

const frameInterval = 50 * time.Millisecond

// Each cell shows two pixels stacked vertically.
const (
	cellWidth  = 1
	cellHeight = 2
	hudRows    = 1
)

// app is the terminal front end. Everything but construction runs on the
// loop goroutine.
type app struct {
	screen   tcell.Screen
	gallery  *gallery.Gallery
	images   *media.Cache
	input    *tcellinput.Translator
	surfaces []*ggsurface.Surface

	// drawn is the surface update count at the last draw.
	drawn int
	dirty bool
}

func newApp(screen tcell.Screen, items []mediatypes.Descriptor, factory playback.ResourceFactory, sched timer.Scheduler) *app {
	a := &app{
		screen: screen,
		images: media.NewCache(media.DefaultCacheSize),
		input:  tcellinput.New(cellWidth, cellHeight),
		dirty:  true,
	}
	a.gallery = gallery.New(items, gallery.Options{
		Viewport: a.viewport(),
		Slot:     playback.SlotOptions{Factory: factory, Scheduler: sched},
		Surface: func(int) zoompan.RenderableSurface {
			s := ggsurface.New()
			a.surfaces = append(a.surfaces, s)
			return s
		},
	})
	if len(items) > 0 {
		_ = a.gallery.SetFocus(0)
	}
	return a
}

func (a *app) close() {
	a.gallery.Close()
}

func (a *app) viewport() viewport.Viewport {
	cols, rows := a.screen.Size()
	imageRows := max(rows-hudRows, 0)
	return viewport.Viewport{Width: float64(cols * cellWidth), Height: float64(imageRows * cellHeight)}
}

// handleEvent applies one terminal event and reports whether to quit.
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.gallery.SetViewport(a.viewport())
		a.dirty = true
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		focus := a.gallery.Focus()
		for _, pe := range a.input.Translate(ev) {
			if err := a.gallery.PointerEvent(focus, pe); err != nil {
				logging.Debug("pointer event dropped: %v", err)
			}
		}
	}
	return false
}

func (a *app) handleKey(ev *tcell.EventKey) bool {
	focus := a.gallery.Focus()
	var err error
	switch ev.Key() {
	case tcell.KeyEsc, tcell.KeyCtrlC:
		return true
	case tcell.KeyRight, tcell.KeyDown, tcell.KeyPgDn:
		a.move(focus + 1)
	case tcell.KeyLeft, tcell.KeyUp, tcell.KeyPgUp:
		a.move(focus - 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'c':
			err = a.gallery.CycleZoom(focus)
		case 'r':
			err = a.gallery.ResetZoom(focus)
		case ' ':
			err = a.gallery.TogglePlay(focus)
		case 'l':
			err = a.gallery.Reload(focus)
		}
	}
	if err != nil {
		logging.Debug("key %v on item %d: %v", ev.Name(), focus, err)
	}
	a.dirty = true
	return false
}

// move scrolls to item i. The drag is reported around the focus change so
// playback hands over the same way a touch scroll does.
func (a *app) move(i int) {
	if i < 0 || i >= a.gallery.Len() {
		return
	}
	for _, pe := range a.input.Cancel() {
		_ = a.gallery.PointerEvent(a.gallery.Focus(), pe)
	}
	a.gallery.ScrollStateChanged(true)
	if err := a.gallery.SetFocus(i); err != nil {
		logging.Warn("focus %d: %v", i, err)
	}
	a.gallery.ScrollStateChanged(false)
}

// tick resolves expired taps and redraws when any surface moved.
func (a *app) tick(now time.Time) {
	a.gallery.Flush(now)
	updates := 0
	for _, s := range a.surfaces {
		_, _, n := s.State()
		updates += n
	}
	if updates != a.drawn || a.dirty {
		a.drawn = updates
		a.dirty = false
		a.draw()
	}
}

func (a *app) draw() {
	a.screen.Clear()
	focus := a.gallery.Focus()
	t, f, err := a.gallery.Transform(focus)
	if err == nil {
		a.drawFrame(focus, t, f)
	}
	a.drawHUD(focus, t)
	a.screen.Show()
}

func (a *app) drawFrame(focus int, t viewport.Transform, f viewport.Frame) {
	desc, err := a.gallery.Item(focus)
	if err != nil {
		return
	}
	opts := ggsurface.Options{Brightness: a.gallery.Values().Value(zoompan.ValueBrightness)}
	if !desc.IsVideo() && f.Geometry.Known() {
		img, err := a.images.Get(desc.Path, int(f.Viewport.Width)*2, int(f.Viewport.Height)*2)
		if err != nil {
			logging.Warn("loading %s: %v", desc.Name(), err)
		} else {
			opts.Content = img
		}
	}

	dc, err := ggsurface.Render(t, f, opts)
	if err != nil {
		return
	}
	defer func() {
		if err := dc.Close(); err != nil {
			logging.Debug("closing render context: %v", err)
		}
	}()
	blit(a.screen, dc.Image())
}

// blit draws img with one upper half block per cell: the foreground is the
// top pixel and the background the bottom one.
func blit(screen tcell.Screen, img image.Image) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += cellHeight {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := cellColor(img, x, y)
			bottom := top
			if y+1 < b.Max.Y {
				bottom = cellColor(img, x, y+1)
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			screen.SetContent(x-b.Min.X, (y-b.Min.Y)/cellHeight, '▀', nil, style)
		}
	}
}

func cellColor(img image.Image, x, y int) tcell.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

func (a *app) drawHUD(focus int, t viewport.Transform) {
	cols, rows := a.screen.Size()
	if rows < 1 {
		return
	}
	line := a.status(focus, t)
	line = runewidth.Truncate(line, cols, "…")

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	if !a.gallery.UIVisible() {
		style = style.Dim(true)
	}
	x := 0
	for _, r := range line {
		a.screen.SetContent(x, rows-1, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (a *app) status(focus int, t viewport.Transform) string {
	desc, err := a.gallery.Item(focus)
	if err != nil {
		return "no item"
	}
	line := fmt.Sprintf("%d/%d %s  %.2fx", focus+1, a.gallery.Len(), desc.Name(), t.Scale)
	if desc.IsVideo() {
		if snap, err := a.gallery.SlotState(focus); err == nil {
			line += fmt.Sprintf("  %s", snap.State)
			if snap.Playing {
				line += " ▶"
			}
			if snap.Fallback != playback.FallbackNone {
				line += fmt.Sprintf(" (%s)", snap.Fallback)
			}
		}
	}
	return line
}
