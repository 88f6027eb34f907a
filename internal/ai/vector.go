package ai

import (
	"encoding/binary"
	"fmt"
	"math"
)

// CosineSimilarity is in [-1, 1]. Mismatched or empty vectors score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i, x := range a {
		y := float64(b[i])
		dot += float64(x) * y
		normA += float64(x) * float64(x)
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / math.Sqrt(normA*normB))
}

// FloatsToBytes packs a vector as little-endian float32s for SQLite.
func FloatsToBytes(vec []float32) ([]byte, error) {
	blob := make([]byte, 0, 4*len(vec))
	for _, f := range vec {
		blob = binary.LittleEndian.AppendUint32(blob, math.Float32bits(f))
	}
	return blob, nil
}

// BytesToFloats unpacks a blob written by FloatsToBytes.
func BytesToFloats(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("invalid byte length %d for float32 slice", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
