package tokenizer

import (
	"strings"
	"testing"
)

// fieldCounter counts whitespace-separated fields, standing in for a real
// encoding in tests.
type fieldCounter struct{}

func (fieldCounter) Name() string {
	return "fields"
}

func (fieldCounter) CountString(input string) (int, error) {
	return len(strings.Fields(input)), nil
}

// TestCountBytesText verifies plain text is counted.
func TestCountBytesText(testingHandle *testing.T) {
	result, countError := CountBytes(fieldCounter{}, []byte("alpha beta gamma"))
	if countError != nil {
		testingHandle.Fatalf("CountBytes failed: %v", countError)
	}
	if !result.Counted || result.Tokens != 3 {
		testingHandle.Fatalf("unexpected result: %+v", result)
	}
}

// TestCountBytesEmpty verifies empty input counts as zero tokens rather than
// being skipped.
func TestCountBytesEmpty(testingHandle *testing.T) {
	result, countError := CountBytes(fieldCounter{}, nil)
	if countError != nil {
		testingHandle.Fatalf("CountBytes failed: %v", countError)
	}
	if !result.Counted || result.Tokens != 0 {
		testingHandle.Fatalf("unexpected result: %+v", result)
	}
}

// TestCountBytesBinary verifies binary input is reported uncounted without
// an error.
func TestCountBytesBinary(testingHandle *testing.T) {
	result, countError := CountBytes(fieldCounter{}, []byte{0x00, 0x01, 0x02})
	if countError != nil {
		testingHandle.Fatalf("CountBytes failed: %v", countError)
	}
	if result.Counted {
		testingHandle.Fatalf("binary input reported as counted: %+v", result)
	}
}

// TestCountBytesNilCounter verifies the nil-counter contract.
func TestCountBytesNilCounter(testingHandle *testing.T) {
	if _, countError := CountBytes(nil, []byte("x")); countError == nil {
		testingHandle.Fatalf("expected error for nil counter")
	}
}
