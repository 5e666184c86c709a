package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxTensorCount   = 100_000           // Maximum number of tensors in a file
	MaxTensorNameLen = 4096              // Maximum tensor name length
)

// TensorMeta describes one tensor of a file: name, shape and byte range in
// the data section.
type TensorMeta struct {
	Name   string
	DType  string
	Shape  []int
	Offset int64
	Size   int64
}

// ValidateTensorOffsets checks for overlapping tensor offsets and out-of-bounds access.
// Malformed files could otherwise alias tensors or read past the data.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	// Sort tensors by offset for efficient overlap detection.
	sorted := make([]TensorMeta, len(tensors))
	copy(sorted, tensors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, t := range sorted {
		if t.Offset < 0 || t.Size < 0 {
			return &ValidationError{
				Err:     ErrNegativeOffset,
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d, size=%d", t.Offset, t.Size),
			}
		}
		if t.Offset+t.Size > dataSize {
			return &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", t.Offset, t.Size, dataSize),
			}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if t.Offset+t.Size > next.Offset {
				return &ValidationError{
					Err:     ErrOffsetOverlap,
					Tensor:  t.Name,
					Tensor2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						t.Offset, t.Offset+t.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}
	return nil
}

// ValidateTensorSize checks that an F32 tensor of the given shape occupies
// exactly size bytes. Dimensions must be non-negative, and the byte count is
// computed without overflow: a shape whose size exceeds the declared span is
// rejected before its product is formed.
func ValidateTensorSize(name string, shape []int64, size int64) error {
	const elemSize = 4
	hasZero := false
	for i, dim := range shape {
		if dim < 0 {
			return &ValidationError{
				Err:     ErrShapeMismatch,
				Tensor:  name,
				Details: fmt.Sprintf("negative dimension %d at index %d", dim, i),
			}
		}
		if dim == 0 {
			hasZero = true
		}
	}
	needed := int64(0)
	if !hasZero {
		needed = elemSize
		for _, dim := range shape {
			if size < 0 || needed > size/dim {
				return &ValidationError{
					Err:     ErrShapeMismatch,
					Tensor:  name,
					Details: fmt.Sprintf("shape %v does not fit in %d bytes", shape, size),
				}
			}
			needed *= dim
		}
	}
	if needed != size {
		return &ValidationError{
			Err:     ErrShapeMismatch,
			Tensor:  name,
			Details: fmt.Sprintf("shape %v needs %d bytes, offsets span %d", shape, needed, size),
		}
	}
	return nil
}

// ValidateTensorName rejects empty names, overlong names and names with path
// separators, ".." or null bytes.
func ValidateTensorName(name string) error {
	reason := ""
	switch {
	case name == "":
		reason = "empty name"
	case len(name) > MaxTensorNameLen:
		reason = fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen)
	case strings.Contains(name, ".."):
		reason = "contains '..'"
	case strings.ContainsAny(name, "/\\"):
		reason = "contains path separator (/ or \\)"
	case strings.Contains(name, "\x00"):
		reason = "contains null byte"
	case name == metadataKey:
		reason = "reserved name"
	}
	if reason != "" {
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: reason}
	}
	return nil
}
