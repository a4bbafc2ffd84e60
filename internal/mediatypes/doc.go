// Package mediatypes provides shared type definitions for media items across
// the gallery.
//
// This package exists as a dependency-free foundation that can be imported by
// the catalog, the playback core and the HTTP layer without creating import
// cycles.
//
// # Descriptors
//
// A [Descriptor] is the only view of a media item the viewport and playback
// core consume: path, kind, intrinsic width/height and duration. The catalog
// produces descriptors; enumerating storage is not this package's concern.
//
//	d := mediatypes.NewDescriptor("/media/clip.mp4", 1920, 1080, 12*time.Second)
//	if d.IsVideo() {
//	    // needs a decoding resource
//	}
//
// # Extension Detection
//
// Use GetFileType or FileTypeForPath to classify a file:
//
//	fileType := mediatypes.FileTypeForPath("/media/IMG_0001.JPG") // FileTypeImage
package mediatypes
