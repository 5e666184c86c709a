package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/pkg/errors"
)

const (
	metadataKey = "__metadata__"
	dtypeF32    = "F32"
)

// tensorHeader represents a tensor in the SafeTensors header.
type tensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// WriteTensors writes tensors and metadata to w in SafeTensors format.
// Tensors are written in alphabetical order by name.
func WriteTensors(w io.Writer, tensors map[string]*tensor.Tensor, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	// Encode the data section first: its checksum goes into the header.
	var data []byte
	header := make(map[string]any, len(names)+1)
	for _, name := range names {
		t := tensors[name]
		begin := int64(len(data))
		for _, v := range t.Data() {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
		}
		shape := t.Shape()
		shape64 := make([]int64, len(shape))
		for i, dim := range shape {
			shape64[i] = int64(dim)
		}
		header[name] = tensorHeader{
			DType:       dtypeF32,
			Shape:       shape64,
			DataOffsets: [2]int64{begin, int64(len(data))},
		}
	}

	meta := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	meta[ChecksumKey] = ComputeChecksum(data)
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return errors.Wrap(err, "failed to write header size")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write tensor data")
	}
	return nil
}

// SaveParams writes the current value of every parameter, under its name.
func SaveParams(w io.Writer, params []*autodiff.Param, metadata map[string]string) error {
	tensors := make(map[string]*tensor.Tensor, len(params))
	for _, p := range params {
		if _, found := tensors[p.Name()]; found {
			return &ValidationError{Err: ErrDuplicateName, Tensor: p.Name(), Details: "two parameters share the name"}
		}
		tensors[p.Name()] = p.Value()
	}
	return WriteTensors(w, tensors, metadata)
}

// WriteFile saves params to a SafeTensors file at path.
func WriteFile(path string, params []*autodiff.Param, metadata map[string]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", path)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "failed to close %q", path)
		}
	}()
	buf := bufio.NewWriter(f)
	if err = SaveParams(buf, params, metadata); err != nil {
		return errors.WithMessagef(err, "saving %q", path)
	}
	return errors.Wrapf(buf.Flush(), "failed to write %q", path)
}
