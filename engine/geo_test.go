package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lng1       float64
		lat2, lng2       float64
		expectedMeters   float64
		toleranceMeters  float64
	}{
		{
			name:            "Same point",
			lat1:            3.1390, lng1: 101.6869,
			lat2:            3.1390, lng2: 101.6869,
			expectedMeters:  0,
			toleranceMeters: 0.01,
		},
		{
			name:            "One millidegree of latitude",
			lat1:            3.1390, lng1: 101.6869,
			lat2:            3.1400, lng2: 101.6869,
			expectedMeters:  111.19,
			toleranceMeters: 0.5,
		},
		{
			name:            "KL to Singapore",
			lat1:            3.1390, lng1: 101.6869,
			lat2:            1.3521, lng2: 103.8198,
			expectedMeters:  309000,
			toleranceMeters: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := HaversineDistance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expectedMeters, d, tt.toleranceMeters)
		})
	}
}
