// Package media loads still images for rendering.
//
// LoadImageConstrained decodes an image with its EXIF orientation applied
// and scales it down to fit the viewport it will be drawn into, bounding
// the memory a single preview can take. Cache keeps the most recently
// rendered images so repeated renders of a page during a gesture do not
// decode the file again.
package media
