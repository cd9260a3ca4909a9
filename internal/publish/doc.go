// Package publish builds a Python package and uploads its distribution artifacts.
//
// Service runs four stages strictly in order: Cleaner removes prior build output,
// the build backend is invoked, Lister enumerates the artifacts it produced for an
// ArtifactReporter, and the upload client receives every listed artifact. The first
// failing stage aborts the run; nothing is retried, so a version the package index
// already holds surfaces as an upload failure.
package publish
