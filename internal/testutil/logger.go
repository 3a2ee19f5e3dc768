package testutil

import (
	"io"

	"github.com/dtroode/senderkeys/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}

// MakeBufferLogger logs every level into w so tests can assert on output.
func MakeBufferLogger(w io.Writer) *logger.Logger {
	return logger.NewWithWriter(w, -4)
}
