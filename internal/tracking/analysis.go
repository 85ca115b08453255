package tracking

import "time"

const (
	splitMeters = 1000.0
	// splitEpsilon absorbs float error in the running segment sum so evenly
	// spaced samples close a split on the sample that lands on the boundary.
	splitEpsilon = 1e-6
)

// Analyze replays the ledger into per-kilometer splits and speed figures.
// A split closes on the first sample that takes it to splitMeters or beyond,
// so splits may run slightly long; the last split holds the remainder.
func Analyze(samples []GpsSample) Analysis {
	a := Analysis{Splits: []Split{}}
	if len(samples) == 0 {
		return a
	}

	var speedSum float64
	for _, p := range samples {
		speed := reportedSpeed(p)
		speedSum += speed
		if speed > a.MaxSpeed {
			a.MaxSpeed = speed
		}
	}
	a.AvgSpeed = speedSum / float64(len(samples))

	var segment float64
	segmentStart := samples[0].RecordedAt
	last := len(samples) - 1
	for i := 1; i <= last; i++ {
		d := sampleDistance(samples[i-1], samples[i])
		a.TotalDistanceMeters += d
		segment += d

		if segment < splitMeters-splitEpsilon && i != last {
			continue
		}

		end := samples[i].RecordedAt
		seconds := int64(end.Sub(segmentStart) / time.Second)
		split := Split{
			Index:           len(a.Splits) + 1,
			DistanceMeters:  segment,
			DurationSeconds: seconds,
			PaceMinPerKm:    Pace(float64(seconds), segment),
			Calories:        Calories(segment),
		}
		a.Splits = append(a.Splits, split)
		a.TotalCalories += split.Calories

		segment = 0
		segmentStart = end
	}
	return a
}

func reportedSpeed(p GpsSample) float64 {
	if p.Speed == nil {
		return 0
	}
	return *p.Speed
}
