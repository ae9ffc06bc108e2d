package perfstats

import (
	"sync/atomic"
	"time"
)

// Two scalars (N samples and X total amount), which can measure total and average values.
type Accumulator struct {
	Samples int64
	Total   float64
}

func (a *Accumulator) Reset() {
	a.Samples = 0
	a.Total = 0
}

func (a *Accumulator) AddSample(v float64) {
	a.Samples++
	a.Total += v
}

func (a *Accumulator) Average() float64 {
	if a.Samples == 0 {
		return 0
	}
	return a.Total / float64(a.Samples)
}

// Accumulate samples of how long something took
type TimeAccumulator struct {
	Samples int64
	Total   time.Duration
}

func (a *TimeAccumulator) Reset() {
	a.Samples = 0
	a.Total = 0
}

func (a *TimeAccumulator) AddSample(v time.Duration) {
	a.Samples++
	a.Total += v
}

func (a *TimeAccumulator) Average() time.Duration {
	if a.Samples == 0 {
		return 0
	}
	return time.Duration(a.Total.Nanoseconds() / a.Samples)
}

// UpdateMovingAverage folds a new sample into an exponential moving average
// that is stored in an int64, so that hot loops can update it while another
// thread reads it for stats reporting.
func UpdateMovingAverage(avg *int64, sample int64) {
	old := atomic.LoadInt64(avg)
	if old == 0 {
		atomic.StoreInt64(avg, sample)
	} else {
		atomic.StoreInt64(avg, (old*15+sample)/16)
	}
}
