package generator

import (
	"crypto/sha256"
	"fmt"
)

// ComputeChecksum computes a SHA256 checksum for the given data
func ComputeChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// GenerateFileData generates size bytes of random data and returns both the data and its checksum
func GenerateFileData(rng *RNG, size int) ([]byte, string) {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}

	checksum := ComputeChecksum(data)
	return data, checksum
}

// GenerateDeterministicFileData produces the same bytes and checksum for the same seed and size
func GenerateDeterministicFileData(seed int64, size int) ([]byte, string) {
	return GenerateFileData(NewRNG(seed), size)
}
