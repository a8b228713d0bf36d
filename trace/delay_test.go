package trace

import (
	"testing"
)

func TestDelayAggregator_Finalize_PreservesEventOrder(t *testing.T) {
	// GIVEN delays recorded out of value order
	a := NewDelayAggregator()
	a.Record(1.0, 0.5)
	a.Record(2.0, 0.1)
	a.Record(3.0, 0.3)

	// WHEN finalized
	records, _ := a.Finalize()

	// THEN records keep event order
	want := []DelayRecord{{1.0, 0.5}, {2.0, 0.1}, {3.0, 0.3}}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d: got %+v, want %+v", i, records[i], want[i])
		}
	}
}

func TestDelayAggregator_Finalize_ReturnsCopy(t *testing.T) {
	a := NewDelayAggregator()
	a.Record(1.0, 0.5)
	records, _ := a.Finalize()
	records[0].Delay = 99

	again, _ := a.Finalize()
	if again[0].Delay != 0.5 {
		t.Errorf("aggregator mutated through finalized slice: %v", again[0].Delay)
	}
}

func TestBuildCDF_NonDecreasingWithRankPercentiles(t *testing.T) {
	// GIVEN N unsorted delays
	records := []DelayRecord{{0, 3}, {0, 1}, {0, 4}, {0, 1}, {0, 5}, {0, 9}, {0, 2}, {0, 6}}
	n := len(records)

	// WHEN the CDF is built
	cdf := BuildCDF(records)

	// THEN delays are non-decreasing and percentiles are 1/N, 2/N, ..., N/N
	if len(cdf) != n {
		t.Fatalf("expected %d points, got %d", n, len(cdf))
	}
	for i, p := range cdf {
		if i > 0 && p.Delay < cdf[i-1].Delay {
			t.Errorf("point %d: delay %v decreases from %v", i, p.Delay, cdf[i-1].Delay)
		}
		want := float64(i+1) / float64(n)
		if p.Percentile != want {
			t.Errorf("point %d: percentile %v, want %v", i, p.Percentile, want)
		}
	}
	if cdf[n-1].Percentile != 1.0 {
		t.Errorf("last percentile must be 1.0, got %v", cdf[n-1].Percentile)
	}
}

func TestBuildCDF_TiesKeepAllPoints(t *testing.T) {
	cdf := BuildCDF([]DelayRecord{{1, 0.2}, {2, 0.2}, {3, 0.1}})
	want := []CDFPoint{{0.1, 1.0 / 3}, {0.2, 2.0 / 3}, {0.2, 1.0}}
	for i := range want {
		if cdf[i] != want[i] {
			t.Errorf("point %d: got %+v, want %+v", i, cdf[i], want[i])
		}
	}
}

func TestBuildCDF_Empty_ReturnsEmptyNonNil(t *testing.T) {
	cdf := BuildCDF(nil)
	if cdf == nil || len(cdf) != 0 {
		t.Errorf("expected empty non-nil CDF, got %v", cdf)
	}
}

func TestDelays_ExtractsValues(t *testing.T) {
	got := Delays([]DelayRecord{{1, 0.5}, {2, 0.25}})
	if len(got) != 2 || got[0] != 0.5 || got[1] != 0.25 {
		t.Errorf("unexpected delays %v", got)
	}
}
