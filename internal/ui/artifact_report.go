package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/temirov/pypublish/internal/publish"
)

const (
	artifactHeaderTemplateConstant         = "Found %d distribution artifacts:\n"
	noArtifactsMessageConstant             = "No distribution artifacts were produced.\n"
	artifactLineTemplateConstant           = "  %s%s%s\n"
	artifactTotalTemplateConstant          = "Total: %s\n"
	artifactColumnPaddingConstant          = 2
	artifactColumnPaddingCharacterConstant = " "
)

var (
	colorArtifactHeader = color.New(color.FgCyan, color.Bold)
	colorArtifactName   = color.New(color.FgHiGreen)
	colorArtifactSize   = color.New(color.FgHiBlack)
	colorArtifactEmpty  = color.New(color.FgYellow)
)

// ArtifactTableReporter prints the artifacts about to be uploaded as an aligned list of names and sizes.
type ArtifactTableReporter struct {
	writer io.Writer
}

// NewArtifactTableReporter constructs a reporter writing to writer.
func NewArtifactTableReporter(writer io.Writer) *ArtifactTableReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ArtifactTableReporter{writer: writer}
}

// ReportArtifacts implements publish.ArtifactReporter.
func (reporter *ArtifactTableReporter) ReportArtifacts(artifacts []publish.Artifact) error {
	var builder strings.Builder

	if len(artifacts) == 0 {
		colorArtifactEmpty.Fprint(&builder, noArtifactsMessageConstant)
		_, writeError := io.WriteString(reporter.writer, builder.String())
		return writeError
	}

	longestNameLength := 0
	for _, artifact := range artifacts {
		if nameLength := utf8.RuneCountInString(artifact.Name); nameLength > longestNameLength {
			longestNameLength = nameLength
		}
	}

	colorArtifactHeader.Fprintf(&builder, artifactHeaderTemplateConstant, len(artifacts))
	for _, artifact := range artifacts {
		spacesCount := longestNameLength - utf8.RuneCountInString(artifact.Name) + artifactColumnPaddingConstant
		fmt.Fprintf(&builder, artifactLineTemplateConstant,
			colorArtifactName.Sprint(artifact.Name),
			strings.Repeat(artifactColumnPaddingCharacterConstant, spacesCount),
			colorArtifactSize.Sprint(humanize.Bytes(uint64(artifact.SizeBytes))))
	}
	fmt.Fprintf(&builder, artifactTotalTemplateConstant, humanize.Bytes(uint64(publish.TotalSize(artifacts))))

	_, writeError := io.WriteString(reporter.writer, builder.String())
	return writeError
}
