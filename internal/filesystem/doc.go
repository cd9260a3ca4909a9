// Package filesystem abstracts the filesystem calls used to clean and inspect build output.
package filesystem
