// Package ui renders human-readable console output for publish runs.
//
// Build and upload lifecycle events are translated into short messages while
// detailed telemetry continues to flow through the structured logger. The
// artifact report lists what is about to be uploaded together with its size.
package ui
