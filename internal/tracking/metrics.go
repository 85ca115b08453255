package tracking

import (
	"math"
	"time"

	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/shared/geo"
)

// caloriesPerKm is a flat estimate; no body metrics are collected.
const caloriesPerKm = 60

type Metrics struct {
	MovingTimeSeconds   int64
	TotalDistanceMeters float64
	AveragePaceMinPerKm float64
	Calories            int
}

// LedgerDistance sums the great-circle distance of consecutive samples.
// Samples must already be in recorded order.
func LedgerDistance(samples []GpsSample) float64 {
	var total float64
	for i := 1; i < len(samples); i++ {
		total += sampleDistance(samples[i-1], samples[i])
	}
	return total
}

// ComputeMetrics derives the completion metrics of a session. Moving time is
// not clamped: a client clock running ahead of the server can make it negative.
func ComputeMetrics(start, end time.Time, pausedSeconds int64, samples []GpsSample) Metrics {
	distance := LedgerDistance(samples)
	moving := int64(end.Sub(start)/time.Second) - pausedSeconds
	return Metrics{
		MovingTimeSeconds:   moving,
		TotalDistanceMeters: distance,
		AveragePaceMinPerKm: Pace(float64(moving), distance),
		Calories:            Calories(distance),
	}
}

// Pace returns minutes per kilometer, or 0 when no distance was covered.
func Pace(seconds, meters float64) float64 {
	km := roundTo(meters/1000, 3)
	if km <= 0 {
		return 0
	}
	minutes := roundTo(seconds/60, 2)
	return roundTo(minutes/km, 2)
}

func Calories(meters float64) int {
	return int(math.Floor(roundTo(meters/1000, 3) * caloriesPerKm))
}

// CompletionRate is the share of the planned distance covered, in percent
// with the ratio rounded to four decimals. Zero without a planned distance.
func CompletionRate(meters, plannedMeters float64) float64 {
	if plannedMeters <= 0 {
		return 0
	}
	return math.Round(meters/plannedMeters*1e4) / 100
}

func sampleDistance(a, b GpsSample) float64 {
	return geo.HaversineMeters(a.Lat, a.Lng, b.Lat, b.Lng)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
