// Package quality scores the freshness of stored produce from temperature and
// humidity readings.
package quality

import (
	"math"
	"math/rand"
	"sync"

	"github.com/gaonbazar/gaonbazar-backend/pkg/config"
	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
)

// Reading is one sample from a storage sensor.
type Reading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// Assessment is a reading together with its verdict.
type Assessment struct {
	Reading
	Freshness       int                `json:"freshness"`
	QualityVerified bool               `json:"quality_verified"`
	Badge           enums.QualityBadge `json:"badge"`
}

// Bands are the inclusive ranges that count as ideal storage.
type Bands struct {
	MinTemperature float64
	MaxTemperature float64
	MinHumidity    float64
	MaxHumidity    float64
}

var DefaultBands = Bands{MinTemperature: 15, MaxTemperature: 25, MinHumidity: 55, MaxHumidity: 75}

// BandsFromConfig maps the quality config section onto scoring bands.
func BandsFromConfig(cfg config.QualityConfig) Bands {
	return Bands{
		MinTemperature: cfg.MinTemperature,
		MaxTemperature: cfg.MaxTemperature,
		MinHumidity:    cfg.MinHumidity,
		MaxHumidity:    cfg.MaxHumidity,
	}
}

func (b Bands) Ideal(r Reading) bool {
	return r.Temperature >= b.MinTemperature && r.Temperature <= b.MaxTemperature &&
		r.Humidity >= b.MinHumidity && r.Humidity <= b.MaxHumidity
}

const (
	idealLow, idealHigh       = 85, 95
	degradedLow, degradedHigh = 50, 70

	simTempLow, simTempHigh         = 14.0, 26.0
	simHumidityLow, simHumidityHigh = 50, 80
)

// Scorer turns readings into freshness scores. The random source is injected so
// results are reproducible in tests.
type Scorer struct {
	bands Bands

	mu  sync.Mutex
	rng *rand.Rand
}

func NewScorer(bands Bands, rng *rand.Rand) *Scorer {
	return &Scorer{bands: bands, rng: rng}
}

// Verified reports whether the reading sits inside the ideal bands.
func (s *Scorer) Verified(r Reading) bool {
	return s.bands.Ideal(r)
}

// Score returns 85..95 for ideal storage and 50..70 otherwise.
func (s *Scorer) Score(r Reading) int {
	if s.Verified(r) {
		return s.intn(idealLow, idealHigh)
	}
	return s.intn(degradedLow, degradedHigh)
}

func (s *Scorer) Assess(r Reading) Assessment {
	freshness := s.Score(r)
	return Assessment{
		Reading:         r,
		Freshness:       freshness,
		QualityVerified: s.Verified(r),
		Badge:           Badge(freshness),
	}
}

// Simulate produces a plausible storage reading and assesses it.
func (s *Scorer) Simulate() Assessment {
	s.mu.Lock()
	temp := simTempLow + s.rng.Float64()*(simTempHigh-simTempLow)
	s.mu.Unlock()

	reading := Reading{
		Temperature: math.Round(temp*10) / 10,
		Humidity:    float64(s.intn(simHumidityLow, simHumidityHigh)),
	}
	return s.Assess(reading)
}

// intn draws uniformly from the closed range [lo, hi].
func (s *Scorer) intn(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Intn(hi-lo+1)
}

// Badge labels a freshness score.
func Badge(freshness int) enums.QualityBadge {
	switch {
	case freshness >= 85:
		return enums.QualityBadgeFresh
	case freshness >= 70:
		return enums.QualityBadgeGood
	default:
		return enums.QualityBadgeFair
	}
}
