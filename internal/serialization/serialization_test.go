package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/optim"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParam(t *testing.T, name string, data []float32, shape ...int) *autodiff.Param {
	t.Helper()
	return autodiff.NewParam(must.M1(tensor.FromSlice(data, tensor.Shape(shape))), name, optim.NewSGD(0.1))
}

// rawFile assembles a SafeTensors stream from a header and a data section.
func rawFile(t *testing.T, header map[string]any, data []byte) []byte {
	t.Helper()
	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(headerJSON))))
	buf.Write(headerJSON)
	buf.Write(data)
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	w := newParam(t, "fc.weight", []float32{1, -2, 3.5, 4, 0, 6}, 2, 3)
	b := newParam(t, "fc.bias", []float32{0.25, -0.75}, 2)
	s := newParam(t, "scale", []float32{7}, 1)

	var buf bytes.Buffer
	require.NoError(t, SaveParams(&buf, []*autodiff.Param{w, b, s}, map[string]string{"step": "10"}))

	file, err := ReadTensors(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, file.Tensors, 3)
	assert.Equal(t, "10", file.Metadata["step"])
	assert.NotEmpty(t, file.Metadata[ChecksumKey])
	assert.True(t, file.Tensors["fc.weight"].Equal(w.Value()))

	// Load into fresh parameters of the same shapes.
	w2 := newParam(t, "fc.weight", make([]float32, 6), 2, 3)
	b2 := newParam(t, "fc.bias", make([]float32, 2), 2)
	require.NoError(t, LoadParams(bytes.NewReader(buf.Bytes()), []*autodiff.Param{w2, b2}))
	assert.Equal(t, w.Value().Data(), w2.Value().Data())
	assert.Equal(t, b.Value().Data(), b2.Value().Data())
}

func TestAlphabeticalOrder(t *testing.T) {
	var buf bytes.Buffer
	tensors := map[string]*tensor.Tensor{
		"zeta":  tensor.Ones(tensor.Shape{2}),
		"alpha": tensor.Zeros(tensor.Shape{3}),
	}
	require.NoError(t, WriteTensors(&buf, tensors, nil))

	data := buf.Bytes()
	size := binary.LittleEndian.Uint64(data[:8])
	var header map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data[8:8+size], &header))
	var alpha, zeta tensorHeader
	require.NoError(t, json.Unmarshal(header["alpha"], &alpha))
	require.NoError(t, json.Unmarshal(header["zeta"], &zeta))
	assert.Equal(t, [2]int64{0, 12}, alpha.DataOffsets)
	assert.Equal(t, [2]int64{12, 20}, zeta.DataOffsets)
	assert.Equal(t, "F32", alpha.DType)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")
	p := newParam(t, "w", []float32{1, 2, 3}, 3)
	require.NoError(t, WriteFile(path, []*autodiff.Param{p}, nil))

	p.Set(tensor.Zeros(tensor.Shape{3}))
	require.NoError(t, ReadFile(path, []*autodiff.Param{p}))
	assert.Equal(t, []float32{1, 2, 3}, p.Value().Data())

	err := ReadFile(filepath.Join(t.TempDir(), "missing.safetensors"), []*autodiff.Param{p})
	assert.Error(t, err)
}

func TestCorruptedData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SaveParams(&buf, []*autodiff.Param{newParam(t, "w", []float32{1, 2}, 2)}, nil))
	data := buf.Bytes()
	data[len(data)-1] ^= 0xFF

	_, err := ReadTensors(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestLoadParams_Errors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SaveParams(&buf, []*autodiff.Param{newParam(t, "w", []float32{1, 2}, 2)}, nil))
	saved := buf.Bytes()

	missing := newParam(t, "v", []float32{0, 0}, 2)
	err := LoadParams(bytes.NewReader(saved), []*autodiff.Param{missing})
	assert.ErrorIs(t, err, ErrMissingTensor)

	wrongShape := newParam(t, "w", []float32{0, 0, 0}, 3)
	err = LoadParams(bytes.NewReader(saved), []*autodiff.Param{wrongShape})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, []float32{0, 0, 0}, wrongShape.Value().Data(), "failed loads leave parameters untouched")
}

func TestSaveParams_DuplicateName(t *testing.T) {
	var buf bytes.Buffer
	a := newParam(t, "w", []float32{1}, 1)
	b := newParam(t, "w", []float32{2}, 1)
	err := SaveParams(&buf, []*autodiff.Param{a, b}, nil)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestReadTensors_Malformed(t *testing.T) {
	eightBytes := make([]byte, 8)
	tests := []struct {
		name   string
		header map[string]any
		data   []byte
		want   error
	}{
		{
			name:   "unsupported dtype",
			header: map[string]any{"w": tensorHeader{DType: "F16", Shape: []int64{2}, DataOffsets: [2]int64{0, 4}}},
			data:   eightBytes[:4],
			want:   ErrUnsupportedDType,
		},
		{
			name:   "size does not match shape",
			header: map[string]any{"w": tensorHeader{DType: "F32", Shape: []int64{3}, DataOffsets: [2]int64{0, 8}}},
			data:   eightBytes,
			want:   ErrShapeMismatch,
		},
		{
			name:   "shape product overflows",
			header: map[string]any{"w": tensorHeader{DType: "F32", Shape: []int64{1 << 32, 1 << 32}, DataOffsets: [2]int64{0, 0}}},
			data:   nil,
			want:   ErrShapeMismatch,
		},
		{
			name:   "negative dimension",
			header: map[string]any{"w": tensorHeader{DType: "F32", Shape: []int64{-2, -1}, DataOffsets: [2]int64{0, 8}}},
			data:   eightBytes,
			want:   ErrShapeMismatch,
		},
		{
			name:   "out of bounds",
			header: map[string]any{"w": tensorHeader{DType: "F32", Shape: []int64{4}, DataOffsets: [2]int64{0, 16}}},
			data:   eightBytes,
			want:   ErrOutOfBounds,
		},
		{
			name: "overlap",
			header: map[string]any{
				"a": tensorHeader{DType: "F32", Shape: []int64{2}, DataOffsets: [2]int64{0, 8}},
				"b": tensorHeader{DType: "F32", Shape: []int64{1}, DataOffsets: [2]int64{4, 8}},
			},
			data: eightBytes,
			want: ErrOffsetOverlap,
		},
		{
			name:   "path in name",
			header: map[string]any{"../w": tensorHeader{DType: "F32", Shape: []int64{1}, DataOffsets: [2]int64{0, 4}}},
			data:   eightBytes[:4],
			want:   ErrInvalidTensorName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTensors(bytes.NewReader(rawFile(t, tt.header, tt.data)))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestReadTensors_HeaderTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(MaxHeaderSize+1)))
	_, err := ReadTensors(&buf)
	assert.ErrorIs(t, err, ErrHeaderTooLarge)

	_, err = ReadTensors(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err, "truncated header size")
}

func TestValidateTensorName(t *testing.T) {
	assert.NoError(t, ValidateTensorName("layer.0.weight"))
	for _, name := range []string{"", "a/b", `a\b`, "a..b", "a\x00b", metadataKey} {
		assert.ErrorIs(t, ValidateTensorName(name), ErrInvalidTensorName, "name %q", name)
	}
}
