package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

// TestComputeChecksum tests the SHA256 checksum generation against known digests
func TestComputeChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{
			name:     "empty data",
			data:     []byte{},
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "nil data",
			data:     nil,
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "hello world",
			data:     []byte("hello world"),
			expected: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
		{
			name: "binary data",
			data: []byte{0x00, 0x01, 0x02, 0x03, 0xff, 0xfe, 0xfd},
		},
		{
			name: "unicode",
			data: []byte("🚀 Cabinet 测试"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := tt.expected
			if expected == "" {
				hash := sha256.Sum256(tt.data)
				expected = hex.EncodeToString(hash[:])
			}

			result := ComputeChecksum(tt.data)
			if result != expected {
				t.Errorf("ComputeChecksum() = %s, want %s", result, expected)
			}
		})
	}
}

// TestGenerateFileData checks sizes and that the checksum matches the bytes
func TestGenerateFileData(t *testing.T) {
	for _, size := range []int{0, 1, 1024, 4096} {
		data, checksum := GenerateFileData(NewRNG(7), size)
		if len(data) != size {
			t.Errorf("GenerateFileData(%d) returned %d bytes", size, len(data))
		}
		if checksum != ComputeChecksum(data) {
			t.Errorf("GenerateFileData(%d) checksum does not match its data", size)
		}
	}
}

// TestGenerateDeterministicFileData checks that a seed pins the content
func TestGenerateDeterministicFileData(t *testing.T) {
	_, first := GenerateDeterministicFileData(99, 512)
	_, second := GenerateDeterministicFileData(99, 512)
	_, other := GenerateDeterministicFileData(100, 512)

	if first != second {
		t.Errorf("same seed produced different checksums: %s, %s", first, second)
	}
	if first == other {
		t.Errorf("different seeds produced the same checksum %s", first)
	}
}

func BenchmarkComputeChecksum(b *testing.B) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i % 256)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeChecksum(data)
	}
}

func BenchmarkGenerateFileData(b *testing.B) {
	rng := NewRNG(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateFileData(rng, 1024)
	}
}
