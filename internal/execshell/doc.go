// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor runs each command exactly once and reports its lifecycle through
// zap or a CommandEventObserver. OSCommandRunner executes processes with os/exec,
// resolving executables with safeexec and optionally mirroring their output to the
// operator while capturing it. The build backend and upload client of the publish
// pipeline are both invoked through this package.
package execshell
