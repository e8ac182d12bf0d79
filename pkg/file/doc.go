// Package file stores uploaded blobs behind the Storage interface, with a
// local filesystem backend for development and an S3 backend for
// production. Paths are always storage-relative; traversal outside the
// base directory or bucket prefix is rejected.
package file
