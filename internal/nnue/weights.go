package nnue

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Weight file format constants.
const (
	MagicNumber = 0x54454E47 // "GNET", little-endian
	Version     = 1
)

// FileHeader is the header of the weight file.
type FileHeader struct {
	Magic      uint32
	Version    uint32
	InputSize  uint32
	HiddenSize uint32
}

// Load reads network weights from r.
// File format, all little-endian:
//   - Header: Magic, Version, InputSize, HiddenSize (4 bytes each)
//   - FeatureWeights: InputSize * HiddenSize * int16
//   - FeatureBiases:  HiddenSize * int16
//   - OutputWeights:  2 * HiddenSize * int16
//   - OutputBias:     int16
func (n *Network) Load(r io.Reader) error {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	if header.Magic != MagicNumber {
		return fmt.Errorf("invalid magic number: expected %x, got %x", MagicNumber, header.Magic)
	}
	if header.Version != Version {
		return fmt.Errorf("unsupported version: expected %d, got %d", Version, header.Version)
	}
	if header.InputSize != InputSize {
		return fmt.Errorf("input size mismatch: expected %d, got %d", InputSize, header.InputSize)
	}
	if header.HiddenSize != HiddenSize {
		return fmt.Errorf("hidden size mismatch: expected %d, got %d", HiddenSize, header.HiddenSize)
	}

	if err := binary.Read(r, binary.LittleEndian, n.FeatureWeights[:]); err != nil {
		return fmt.Errorf("failed to read feature weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, n.FeatureBiases[:]); err != nil {
		return fmt.Errorf("failed to read feature biases: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, n.OutputWeights[:]); err != nil {
		return fmt.Errorf("failed to read output weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("failed to read output bias: %w", err)
	}

	return nil
}

// LoadFile loads network weights from a file.
func (n *Network) LoadFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open weights file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 1<<20)
	if err := n.Load(br); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// Save writes network weights to w in the format Load reads.
func (n *Network) Save(w io.Writer) error {
	header := FileHeader{
		Magic:      MagicNumber,
		Version:    Version,
		InputSize:  InputSize,
		HiddenSize: HiddenSize,
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, n.FeatureWeights[:]); err != nil {
		return fmt.Errorf("failed to write feature weights: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, n.FeatureBiases[:]); err != nil {
		return fmt.Errorf("failed to write feature biases: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, n.OutputWeights[:]); err != nil {
		return fmt.Errorf("failed to write output weights: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, n.OutputBias); err != nil {
		return fmt.Errorf("failed to write output bias: %w", err)
	}

	return nil
}

// SaveFile writes network weights to a file.
func (n *Network) SaveFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create weights file: %w", err)
	}

	bw := bufio.NewWriterSize(f, 1<<20)
	if err := n.Save(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush weights file: %w", err)
	}
	return f.Close()
}

// NewRandomNetwork creates a network with small seeded pseudo-random
// weights. For tests, fixtures and benchmarking only; the values are
// kept small enough that no realistic position overflows the int16
// accumulators.
func NewRandomNetwork(seed int64) *Network {
	n := &Network{}

	state := uint64(seed)
	next := func() int16 {
		state = state*6364136223846793005 + 1442695040888963407
		return int16((state>>48)&0xFF) - 128 // -128 to 127
	}

	for i := range n.FeatureWeights {
		n.FeatureWeights[i] = next() >> 4 // -8 to 7
	}
	for i := range n.FeatureBiases {
		n.FeatureBiases[i] = next() >> 2 // -32 to 31
	}
	for i := range n.OutputWeights {
		n.OutputWeights[i] = next() >> 3 // -16 to 15
	}
	n.OutputBias = next()

	return n
}
