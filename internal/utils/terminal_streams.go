package utils

import (
	"io"
	"sync"
)

// TerminalStreams are the destinations build and upload tools mirror their output to.
// Both streams hold one lock, so a chunk written to standard error never lands in the
// middle of a chunk written to standard output when they share a terminal.
type TerminalStreams struct {
	StandardOutput io.Writer
	StandardError  io.Writer
}

type bufferFlusher interface {
	Flush() error
}

type terminalStream struct {
	destination io.Writer
	sharedLock  *sync.Mutex
}

// NewTerminalStreams wraps standardOutput and standardError. Buffered destinations are
// flushed after every write. A nil destination stays nil so mirroring can be disabled.
func NewTerminalStreams(standardOutput io.Writer, standardError io.Writer) TerminalStreams {
	sharedLock := &sync.Mutex{}
	return TerminalStreams{
		StandardOutput: wrapTerminalStream(standardOutput, sharedLock),
		StandardError:  wrapTerminalStream(standardError, sharedLock),
	}
}

func wrapTerminalStream(destination io.Writer, sharedLock *sync.Mutex) io.Writer {
	if destination == nil {
		return nil
	}
	return &terminalStream{destination: destination, sharedLock: sharedLock}
}

func (stream *terminalStream) Write(chunk []byte) (int, error) {
	stream.sharedLock.Lock()
	defer stream.sharedLock.Unlock()

	bytesWritten, writeError := stream.destination.Write(chunk)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if flusher, buffered := stream.destination.(bufferFlusher); buffered {
		return bytesWritten, flusher.Flush()
	}
	return bytesWritten, nil
}
