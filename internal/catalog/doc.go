// Package catalog stores media descriptors in SQLite and fills them in by
// probing files on disk.
//
// The gallery needs each item's intrinsic size before it can fit content
// to the viewport, and probing a video through ffprobe takes long enough
// that it should happen once per file version. [Store] keeps one row per
// path keyed on modification time. [Scanner] lists a directory, probes the
// files whose rows are missing or stale on a bounded worker pool, and
// writes the results back.
//
// Image sizes are read with EXIF orientation applied, so a portrait photo
// stored sideways reports portrait geometry. Files that cannot be probed
// are still catalogued with zero geometry: the viewport treats that as
// unknown and waits for the decoder to report a size.
package catalog
