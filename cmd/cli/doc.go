// Package cli constructs the pypublish command-line interface, wiring the
// Cobra root command, configuration loader, and structured logging
// primitives to the publish pipeline. It exposes helpers to build reusable
// application instances and to map pipeline failures to process exit codes.
package cli
