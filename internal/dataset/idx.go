package dataset

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// IDX magic numbers.
const (
	idxImagesMagic = 0x00000803 // 2051
	idxLabelsMagic = 0x00000801 // 2049
)

// LoadIDX loads the MNIST training set (train=true) or test set from the
// official IDX files in dir. Each file may also be present with a .gz suffix.
// maxSamples limits the number of examples (0 = all).
//
// Expected files in dir:
//   - train-images-idx3-ubyte, train-labels-idx1-ubyte
//   - t10k-images-idx3-ubyte, t10k-labels-idx1-ubyte
func LoadIDX(dir string, train bool, maxSamples int) (*Dataset, error) {
	prefix := "t10k"
	if train {
		prefix = "train"
	}

	imgFile, err := openIDX(filepath.Join(dir, prefix+"-images-idx3-ubyte"))
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	defer imgFile.Close()

	images, rows, cols, err := ReadIDXImages(imgFile, maxSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to load images from %s: %w", imgFile.Name(), err)
	}

	lblFile, err := openIDX(filepath.Join(dir, prefix+"-labels-idx1-ubyte"))
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	defer lblFile.Close()

	labels, err := ReadIDXLabels(lblFile, maxSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels from %s: %w", lblFile.Name(), err)
	}

	return FromIDX(images, labels, rows*cols, MNISTClasses)
}

// FromIDX builds a dataset from raw IDX image bytes and labels.
func FromIDX(images [][]byte, labels []byte, numFeatures, numClasses int) (*Dataset, error) {
	if len(images) != len(labels) {
		return nil, fmt.Errorf("%w: %d images, %d labels", ErrCountMismatch, len(images), len(labels))
	}
	if len(images) == 0 {
		return nil, ErrEmpty
	}

	examples := make([]Example, len(images))
	for i, img := range images {
		if len(img) != numFeatures {
			return nil, fmt.Errorf("%w: image %d has %d pixels, want %d", ErrMalformedRecord, i, len(img), numFeatures)
		}
		if int(labels[i]) >= numClasses {
			return nil, fmt.Errorf("%w: label %d at index %d not in [0, %d)", ErrLabelOutOfRange, labels[i], i, numClasses)
		}

		features := make([]float64, numFeatures)
		for j, p := range img {
			features[j] = Normalize(float64(p))
		}
		examples[i] = Example{Features: features, Label: int(labels[i])}
	}

	return &Dataset{
		Examples:    examples,
		NumFeatures: numFeatures,
		NumClasses:  numClasses,
	}, nil
}

// idxFile is an opened IDX file, transparently decompressed.
type idxFile struct {
	io.Reader
	file *os.File
}

func (f *idxFile) Name() string { return f.file.Name() }

func (f *idxFile) Close() error { return f.file.Close() }

// openIDX opens path, or path+".gz" when path does not exist.
// Gzip is detected from the stream header rather than the name.
func openIDX(path string) (*idxFile, error) {
	//nolint:gosec // G304: dataset path is user input by design
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		//nolint:gosec // G304: dataset path is user input by design
		if gz, gzErr := os.Open(path + ".gz"); gzErr == nil {
			file, err = gz, nil
		}
	}
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(file)
	head, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		_ = file.Close()
		return nil, err
	}
	if len(head) == 2 && head[0] == 0x1f && head[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("%s: %w", file.Name(), err)
		}
		return &idxFile{Reader: zr, file: file}, nil
	}
	return &idxFile{Reader: br, file: file}, nil
}

// ReadIDXImages reads an image file in IDX format.
// maxSamples limits the number of images read (0 = all).
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes (28)
//	number of cols: 4 bytes (28)
//	pixel data: unsigned bytes (0-255)
func ReadIDXImages(r io.Reader, maxSamples int) (images [][]byte, rows, cols int, err error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read header: %w", err)
	}
	if header[0] != idxImagesMagic {
		return nil, 0, 0, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, header[0], idxImagesMagic)
	}

	count, rows, cols := int(header[1]), int(header[2]), int(header[3])
	if rows == 0 || cols == 0 {
		return nil, 0, 0, fmt.Errorf("%w: image size %dx%d", ErrMalformedRecord, rows, cols)
	}
	if maxSamples > 0 && count > maxSamples {
		count = maxSamples
	}

	images = make([][]byte, 0, min(count, 1<<16))
	for i := 0; i < count; i++ {
		img := make([]byte, rows*cols)
		if _, err := io.ReadFull(r, img); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to read image %d: %w", i, err)
		}
		images = append(images, img)
	}

	return images, rows, cols, nil
}

// ReadIDXLabels reads a label file in IDX format.
// maxSamples limits the number of labels read (0 = all).
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func ReadIDXLabels(r io.Reader, maxSamples int) ([]byte, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header[0] != idxLabelsMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, header[0], idxLabelsMagic)
	}

	count := int(header[1])
	if maxSamples > 0 && count > maxSamples {
		count = maxSamples
	}

	labels := make([]byte, count)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}
