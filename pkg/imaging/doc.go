// Package imaging normalizes uploaded avatar images: any supported input
// format (JPEG, PNG, GIF, WebP) is center-cropped to a square, resampled
// with Catmull-Rom interpolation and encoded as JPEG.
package imaging
