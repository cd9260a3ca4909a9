package utils_test

import (
	"bufio"
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pypublish/internal/utils"
)

const (
	testBuildProgressLineConstant = "* Building wheel...\n"
	testUploadWarningLineConstant = "WARNING  Skipping demo-1.0.tar.gz because it appears to already exist\n"
	testConcurrentWriteCount      = 200
)

func TestTerminalStreamsFlushBufferedDestinations(testInstance *testing.T) {
	var terminal bytes.Buffer
	bufferedTerminal := bufio.NewWriterSize(&terminal, 4096)

	streams := utils.NewTerminalStreams(bufferedTerminal, nil)
	bytesWritten, writeError := streams.StandardOutput.Write([]byte(testBuildProgressLineConstant))

	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len(testBuildProgressLineConstant), bytesWritten)
	require.Equal(testInstance, testBuildProgressLineConstant, terminal.String())
	require.Nil(testInstance, streams.StandardError)
}

func TestTerminalStreamsKeepChunksWholeOnSharedTerminal(testInstance *testing.T) {
	var terminal bytes.Buffer
	streams := utils.NewTerminalStreams(&terminal, &terminal)

	var waitGroup sync.WaitGroup
	for writeIndex := 0; writeIndex < testConcurrentWriteCount; writeIndex++ {
		waitGroup.Add(2)
		go func() {
			defer waitGroup.Done()
			_, _ = streams.StandardOutput.Write([]byte(testBuildProgressLineConstant))
		}()
		go func() {
			defer waitGroup.Done()
			_, _ = streams.StandardError.Write([]byte(testUploadWarningLineConstant))
		}()
	}
	waitGroup.Wait()

	lines := strings.SplitAfter(terminal.String(), "\n")
	lines = lines[:len(lines)-1]
	require.Len(testInstance, lines, 2*testConcurrentWriteCount)
	for _, line := range lines {
		require.Contains(testInstance, []string{testBuildProgressLineConstant, testUploadWarningLineConstant}, line)
	}
}
