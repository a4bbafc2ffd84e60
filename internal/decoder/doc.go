// Package decoder provides the decoding resources behind video slots.
//
// [ProbeVideo] runs ffprobe and parses its JSON output into a [VideoInfo].
// [Factory] implements playback.ResourceFactory: each [Player] it creates
// probes its file in the background during Prepare and reports the video
// size and readiness back through a poster, normally a timer.Loop, so
// listener callbacks always arrive on the goroutine that owns the slots.
//
// Players keep a playhead rather than decoding frames. Play, Pause and
// SeekToStart move it, and [Factory.Tick] reports the end of content when
// the playhead passes the probed duration. Rendering frames is left to
// whatever front end owns the surface.
//
// ffprobe failures that mention memory exhaustion are wrapped with
// playback.ErrOutOfMemory so slots fall back to the thumbnail instead of
// retrying.
package decoder
