package series

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/CSJesus/HardwarePriceCharting/pkg/model"
)

func TestTrailing(t *testing.T) {
	points := []model.Point{
		pt(2025, time.January, 1, 100),
		pt(2025, time.January, 2, 120),
		pt(2025, time.January, 3, 90),
		pt(2025, time.January, 4, 110),
	}

	stats, err := Trailing(points, 30)
	if err != nil {
		t.Fatalf("Trailing: %v", err)
	}
	if stats.Low != 90 || stats.High != 120 {
		t.Errorf("low/high = %v/%v, want 90/120", stats.Low, stats.High)
	}
	if stats.Average != 105 {
		t.Errorf("average = %v, want 105", stats.Average)
	}
	if stats.Current != 110 {
		t.Errorf("current = %v, want newest point 110", stats.Current)
	}
	if stats.Previous == nil || *stats.Previous != 90 {
		t.Errorf("previous = %v, want 90", stats.Previous)
	}
}

func TestTrailingWindowTruncation(t *testing.T) {
	// 40 ascending days; only the latest 30 should count.
	points := make([]model.Point, 0, 40)
	for i := 0; i < 40; i++ {
		points = append(points, model.Point{
			Date:  day(2025, time.January, 1).AddDate(0, 0, i),
			Price: float64(i),
		})
	}

	stats, err := Trailing(points, 30)
	if err != nil {
		t.Fatalf("Trailing: %v", err)
	}
	// Prices are the day index: latest 30 are 10..39.
	if stats.Low != 10 || stats.High != 39 || stats.Current != 39 {
		t.Errorf("stats = %+v, want low=10 high=39 current=39", stats)
	}
	if want := 24.5; math.Abs(stats.Average-want) > 1e-9 {
		t.Errorf("average = %v, want %v", stats.Average, want)
	}
}

func TestTrailingSinglePoint(t *testing.T) {
	stats, err := Trailing([]model.Point{pt(2025, time.January, 1, 42)}, 30)
	if err != nil {
		t.Fatalf("Trailing: %v", err)
	}
	if stats.Low != 42 || stats.High != 42 || stats.Average != 42 || stats.Current != 42 {
		t.Errorf("stats = %+v, want every field 42", stats)
	}
	if stats.Previous != nil {
		t.Errorf("previous = %v, want nil for a single point", *stats.Previous)
	}
}

func TestTrailingOrderIndependent(t *testing.T) {
	asc := []model.Point{
		pt(2025, time.January, 1, 100),
		pt(2025, time.January, 2, 120),
		pt(2025, time.January, 3, 90),
	}
	shuffled := []model.Point{asc[2], asc[0], asc[1]}

	a, _ := Trailing(asc, 30)
	b, _ := Trailing(shuffled, 30)
	if a.Current != b.Current || a.Low != b.Low || a.High != b.High || a.Average != b.Average {
		t.Errorf("stats differ by input order: %+v vs %+v", a, b)
	}
}

func TestTrailingEmpty(t *testing.T) {
	if _, err := Trailing(nil, 30); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("err = %v, want ErrEmptySeries", err)
	}
}
