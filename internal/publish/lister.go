package publish

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/temirov/pypublish/internal/filesystem"
)

const (
	hiddenFilePrefixConstant = "."
)

// Artifact describes one distribution file found in the output directory.
type Artifact struct {
	Path       string
	Name       string
	SizeBytes  int64
	ModifiedAt time.Time
}

// Lister enumerates distribution artifacts.
type Lister struct {
	fileSystem filesystem.FileSystem
}

// NewLister constructs a Lister operating on fileSystem.
func NewLister(fileSystem filesystem.FileSystem) *Lister {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	return &Lister{fileSystem: fileSystem}
}

// List returns the regular, non-hidden files of outputDirectory sorted by name. Symbolic
// links are followed and kept when they resolve to a regular file. A zero modifiedSince
// returns every file; otherwise files modified before it are left out. A missing output
// directory yields no artifacts and no error.
func (lister *Lister) List(outputDirectory string, modifiedSince time.Time) ([]Artifact, error) {
	directoryEntries, readError := lister.fileSystem.ReadDir(outputDirectory)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, readError
	}

	artifacts := make([]Artifact, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if strings.HasPrefix(directoryEntry.Name(), hiddenFilePrefixConstant) {
			continue
		}

		artifactPath := filepath.Join(outputDirectory, directoryEntry.Name())
		fileInformation, informationError := lister.describe(artifactPath, directoryEntry)
		if informationError != nil {
			if errors.Is(informationError, fs.ErrNotExist) {
				continue
			}
			return nil, informationError
		}
		if !fileInformation.Mode().IsRegular() {
			continue
		}
		if !modifiedSince.IsZero() && fileInformation.ModTime().Before(modifiedSince) {
			continue
		}

		artifacts = append(artifacts, Artifact{
			Path:       artifactPath,
			Name:       directoryEntry.Name(),
			SizeBytes:  fileInformation.Size(),
			ModifiedAt: fileInformation.ModTime(),
		})
	}

	return artifacts, nil
}

// describe stats the link target for symbolic links and the entry itself otherwise.
func (lister *Lister) describe(artifactPath string, directoryEntry fs.DirEntry) (fs.FileInfo, error) {
	if directoryEntry.Type()&fs.ModeSymlink != 0 {
		return lister.fileSystem.Stat(artifactPath)
	}
	return directoryEntry.Info()
}

// TotalSize sums the sizes of artifacts.
func TotalSize(artifacts []Artifact) int64 {
	var totalBytes int64
	for _, artifact := range artifacts {
		totalBytes += artifact.SizeBytes
	}
	return totalBytes
}
