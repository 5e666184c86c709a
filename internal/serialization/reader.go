package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// File is the decoded content of a SafeTensors stream.
type File struct {
	Tensors  map[string]*tensor.Tensor
	Metadata map[string]string
}

// ReadTensors decodes a SafeTensors stream. Only F32 tensors are supported.
func ReadTensors(r io.Reader) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, errors.Wrap(err, "failed to read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, &ValidationError{
			Err:     ErrHeaderTooLarge,
			Details: fmt.Sprintf("%d bytes, max %d", headerSize, MaxHeaderSize),
		}
	}
	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse header")
	}

	file := &File{Tensors: make(map[string]*tensor.Tensor, len(raw))}
	metas := make([]TensorMeta, 0, len(raw))
	for name, msg := range raw {
		if name == metadataKey {
			if err := json.Unmarshal(msg, &file.Metadata); err != nil {
				return nil, errors.Wrap(err, "failed to parse metadata")
			}
			continue
		}
		if err := ValidateTensorName(name); err != nil {
			return nil, err
		}
		var th tensorHeader
		if err := json.Unmarshal(msg, &th); err != nil {
			return nil, errors.Wrapf(err, "failed to parse header of tensor %q", name)
		}
		if th.DType != dtypeF32 {
			return nil, &ValidationError{Err: ErrUnsupportedDType, Tensor: name, Details: th.DType}
		}
		size := th.DataOffsets[1] - th.DataOffsets[0]
		if err := ValidateTensorSize(name, th.Shape, size); err != nil {
			return nil, err
		}
		shape := make(tensor.Shape, len(th.Shape))
		for i, dim := range th.Shape {
			shape[i] = int(dim)
		}
		meta := TensorMeta{
			Name:   name,
			DType:  th.DType,
			Shape:  shape,
			Offset: th.DataOffsets[0],
			Size:   size,
		}
		metas = append(metas, meta)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tensor data")
	}
	if err := ValidateTensorOffsets(metas, int64(len(data))); err != nil {
		return nil, err
	}
	if stored, found := file.Metadata[ChecksumKey]; found {
		if err := ValidateChecksum(data, stored); err != nil {
			return nil, err
		}
	}

	for _, meta := range metas {
		chunk := data[meta.Offset : meta.Offset+meta.Size]
		values := make([]float32, len(chunk)/4)
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(chunk[4*i:]))
		}
		t, err := tensor.FromSlice(values, meta.Shape)
		if err != nil {
			return nil, errors.Wrapf(err, "tensor %q", meta.Name)
		}
		file.Tensors[meta.Name] = t
	}
	return file, nil
}

// LoadParams reads a SafeTensors stream and sets every parameter to the
// tensor of the same name. Shapes must match. Tensors without a matching
// parameter are ignored.
func LoadParams(r io.Reader, params []*autodiff.Param) error {
	file, err := ReadTensors(r)
	if err != nil {
		return err
	}
	return file.Assign(params)
}

// Assign sets every parameter to the tensor of the same name. It validates
// all parameters before modifying any.
func (f *File) Assign(params []*autodiff.Param) error {
	used := make(map[string]bool, len(params))
	for _, p := range params {
		t, found := f.Tensors[p.Name()]
		if !found {
			return &ValidationError{Err: ErrMissingTensor, Tensor: p.Name(), Details: "no tensor for parameter"}
		}
		if !t.Shape().Equal(p.Shape()) {
			return &ValidationError{
				Err:     ErrShapeMismatch,
				Tensor:  p.Name(),
				Details: fmt.Sprintf("file has %s, parameter has %s", t.Shape(), p.Shape()),
			}
		}
		used[p.Name()] = true
	}
	for _, p := range params {
		p.Set(f.Tensors[p.Name()])
	}
	for name := range f.Tensors {
		if !used[name] {
			klog.Warningf("serialization: tensor %q has no matching parameter, skipped", name)
		}
	}
	return nil
}

// ReadFile loads params from the SafeTensors file at path.
func ReadFile(path string, params []*autodiff.Param) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", path)
	}
	defer func() { _ = f.Close() }()
	if err := LoadParams(bufio.NewReader(f), params); err != nil {
		return errors.WithMessagef(err, "loading %q", path)
	}
	return nil
}
