package sse

import "io"

// readChunkSize is the transport read granularity. Fragment boundaries carry
// no meaning; the LineBuffer reassembles lines regardless of how the bytes
// were split.
const readChunkSize = 4096

// FrameReader pulls classified frames out of a raw SSE byte stream. Each call
// to Next reads from the underlying reader only as needed, so the network
// read happens inline with the caller's demand for the next frame and frames
// are returned in strict arrival order of their source lines.
//
// A FrameReader is owned by exactly one stream consumer and is not safe for
// concurrent use.
type FrameReader struct {
	source io.Reader
	buffer LineBuffer
	queue  []Frame
	chunk  []byte
	err    error
}

// NewFrameReader creates a FrameReader over an open SSE response body.
// Closing the underlying reader remains the caller's responsibility.
func NewFrameReader(source io.Reader) *FrameReader {
	return &FrameReader{
		source: source,
		chunk:  make([]byte, readChunkSize),
	}
}

// Next returns the next non-noise frame in arrival order. It returns io.EOF
// at natural end of stream (a trailing partial line is discarded, per SSE
// framing) and the transport error verbatim when a read fails. Once an error
// has been returned, all subsequent calls return the same error.
func (reader *FrameReader) Next() (Frame, error) {
	for {
		if len(reader.queue) > 0 {
			frame := reader.queue[0]
			reader.queue = reader.queue[1:]
			return frame, nil
		}
		if reader.err != nil {
			return Frame{}, reader.err
		}

		read, err := reader.source.Read(reader.chunk)
		if read > 0 {
			for _, line := range reader.buffer.Write(reader.chunk[:read]) {
				if frame := Classify(line); frame.Kind != FrameNone {
					reader.queue = append(reader.queue, frame)
				}
			}
		}
		if err != nil {
			reader.err = err
		}
	}
}
