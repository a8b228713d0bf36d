package trace

import "sort"

// DelayRecord is one matched receipt: when it happened and how long the
// message took from its send.
type DelayRecord struct {
	Time  float64 `json:"time"`
	Delay float64 `json:"delay"`
}

// CDFPoint pairs a delay with the fraction of receipts at or below its rank.
type CDFPoint struct {
	Delay      float64 `json:"delay"`
	Percentile float64 `json:"percentile"`
}

// DelayAggregator collects delays in event order.
type DelayAggregator struct {
	records []DelayRecord
}

// NewDelayAggregator creates an empty aggregator.
func NewDelayAggregator() *DelayAggregator {
	return &DelayAggregator{records: make([]DelayRecord, 0)}
}

// Record appends one measurement. No deduplication, no bound.
func (a *DelayAggregator) Record(time, delay float64) {
	a.records = append(a.records, DelayRecord{Time: time, Delay: delay})
}

// Len returns the number of recorded delays.
func (a *DelayAggregator) Len() int {
	return len(a.records)
}

// Finalize returns a copy of the records in event order and the empirical
// CDF. The k-th smallest delay (1-indexed) gets percentile k/N; ties keep
// their event order.
func (a *DelayAggregator) Finalize() ([]DelayRecord, []CDFPoint) {
	records := make([]DelayRecord, len(a.records))
	copy(records, a.records)
	return records, BuildCDF(records)
}

// BuildCDF derives the empirical CDF from delay records.
func BuildCDF(records []DelayRecord) []CDFPoint {
	delays := Delays(records)
	sort.SliceStable(delays, func(i, j int) bool { return delays[i] < delays[j] })

	n := float64(len(delays))
	cdf := make([]CDFPoint, len(delays))
	for i, d := range delays {
		cdf[i] = CDFPoint{Delay: d, Percentile: float64(i+1) / n}
	}
	return cdf
}

// Delays extracts the delay values from records, in order.
func Delays(records []DelayRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Delay
	}
	return out
}
