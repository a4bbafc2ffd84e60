/*
Package filesystem wraps the filesystem calls the catalog and image loader
make with retry logic for NFS stale file handle errors.

Media libraries are often served from NFS. When the server replaces a file
or a directory while a client holds a handle to it, calls fail with ESTALE
until the handle is looked up again. Stat, Open and ReadDir retry those
errors with exponential backoff; every other error is returned at once.

	entries, err := filesystem.ReadDir(dir, filesystem.DefaultRetryConfig())

Retry activity is reported to the Observer installed with SetObserver. The
metrics package provides a Prometheus implementation; without one nothing
is recorded.
*/
package filesystem
