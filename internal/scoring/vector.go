package scoring

import (
	"math"

	"jukejam/internal/models"
)

// Tempo range mapped onto [0,1] before comparison
const (
	TempoMinBPM = 40.0
	TempoMaxBPM = 220.0
)

// FeatureVector is the fixed-order encoding {energy, valence, danceability, acousticness, tempo}
type FeatureVector [5]float64

// Indexes into a FeatureVector
const (
	DimEnergy = iota
	DimValence
	DimDanceability
	DimAcousticness
	DimTempo
)

// NormalizeTempo rescales BPM from [40, 220] into [0, 1], clamping out-of-range values
func NormalizeTempo(bpm float64) float64 {
	v := (bpm - TempoMinBPM) / (TempoMaxBPM - TempoMinBPM)
	return math.Max(0, math.Min(1, v))
}

// VectorOf encodes audio features with tempo normalized
func VectorOf(f models.AudioFeatures) FeatureVector {
	return FeatureVector{f.Energy, f.Valence, f.Danceability, f.Acousticness, NormalizeTempo(f.Tempo)}
}

// RawVectorOf encodes audio features without touching tempo
func RawVectorOf(f models.AudioFeatures) FeatureVector {
	return FeatureVector{f.Energy, f.Valence, f.Danceability, f.Acousticness, f.Tempo}
}

// Magnitude returns the Euclidean norm of v
func (v FeatureVector) Magnitude() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of a and b, or 0 when either has zero magnitude
func Cosine(a, b FeatureVector) float64 {
	magA, magB := a.Magnitude(), b.Magnitude()
	if magA == 0 || magB == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (magA * magB)
}
