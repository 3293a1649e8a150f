package utils

import (
	"bytes"
	"io"
	"os"
	"unicode/utf8"
)

// sniffLength bounds how many bytes are read when classifying file content.
const sniffLength = 8000

// IsBinary reports whether data cannot be shown as text in a report: either
// it is not valid UTF-8 or it contains a NUL byte.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	return bytes.IndexByte(data, 0) >= 0
}

// IsFileBinary classifies the file at path by sniffing its first sniffLength
// bytes, so large binaries are never read whole. Unreadable files report as
// non-binary; the caller surfaces the read error itself.
func IsFileBinary(path string) bool {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()

	sniffBuffer := make([]byte, sniffLength)
	bytesRead, readError := fileHandle.Read(sniffBuffer)
	if readError != nil && readError != io.EOF {
		return false
	}
	return IsBinary(sniffBuffer[:bytesRead])
}
