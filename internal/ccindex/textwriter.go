// Adapted from the teacher's internal/index/writer.go: jsonWriter wraps
// a bufio.Writer and a json.Encoder so the LSIF emitter can stream
// vertices without building the whole dump in memory, surfacing the
// first encode error on Flush rather than on every Write. textWriter
// plays the same streaming role for a snapshot's canonical text dump
// (spec.md §8, P6: textual stability), used by IndexedFile.WriteText.
package ccindex

import (
	"bufio"
	"io"
)

// textWriter buffers canonical-text output and defers error reporting
// to Flush, mirroring the teacher's jsonWriter.
type textWriter struct {
	buffered *bufio.Writer
	err      error
}

// textWriterBufferSize matches the teacher's writerBufferSize.
const textWriterBufferSize = 4096

func newTextWriter(w io.Writer) *textWriter {
	return &textWriter{buffered: bufio.NewWriterSize(w, textWriterBufferSize)}
}

func (tw *textWriter) writeLine(s string) {
	if tw.err != nil {
		return
	}
	if _, err := tw.buffered.WriteString(s); err != nil {
		tw.err = err
		return
	}
	if _, err := tw.buffered.WriteString("\n"); err != nil {
		tw.err = err
	}
}

func (tw *textWriter) flush() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.buffered.Flush()
}
