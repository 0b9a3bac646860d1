package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// CacheKey hashes the parts into a short stable key for memoization.
func CacheKey(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))[:24]
}

// HashVector builds a bag-of-words vector from text. Used when no embedding
// provider is configured; similar wording lands close, nothing more.
func HashVector(text string, dimensions int) pgvector.Vector {
	vector := make([]float32, dimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		hash := hashWord(word)
		for i := 0; i < dimensions; i++ {
			vector[i] += float32(math.Sin(float64(hash+uint32(i))) * 0.1)
		}
	}
	return pgvector.NewVector(normalize(vector))
}

// FitDimensions truncates or zero-pads an embedding, then re-normalizes it.
func FitDimensions(values []float32, dimensions int) pgvector.Vector {
	out := make([]float32, dimensions)
	copy(out, values)
	return pgvector.NewVector(normalize(out))
}

func normalize(vector []float32) []float32 {
	var magnitude float64
	for _, v := range vector {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / magnitude)
		}
	}
	return vector
}

func hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}
