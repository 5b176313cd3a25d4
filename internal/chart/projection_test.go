package chart

import (
	"math"
	"testing"
	"time"

	"github.com/zaocat/Purrfit/pkg/domain"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func rec(date string, weight float64) domain.WeightRecord {
	return domain.WeightRecord{Date: date, Weight: weight, Name: "Mimi"}
}

func TestParseWindow(t *testing.T) {
	cases := map[string]Window{
		"3m":     WindowThreeMonth,
		"6m":     WindowSixMonth,
		"all":    WindowAll,
		"":       WindowAll,
		"bogus":  WindowAll,
		"90days": WindowAll,
	}
	for in, want := range cases {
		if got := ParseWindow(in); got != want {
			t.Errorf("ParseWindow(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilterWindowCutoffs(t *testing.T) {
	records := []domain.WeightRecord{
		rec("2023-09-01", 4.0), // > 180 days before fixedNow
		rec("2024-01-15", 4.1), // inside 180, outside 90
		rec("2024-04-01", 4.2), // inside 90
	}
	if got := FilterWindow(records, WindowAll, fixedNow); len(got) != 3 {
		t.Fatalf("all: expected 3, got %d", len(got))
	}
	if got := FilterWindow(records, WindowSixMonth, fixedNow); len(got) != 2 {
		t.Fatalf("6m: expected 2, got %d", len(got))
	}
	got := FilterWindow(records, WindowThreeMonth, fixedNow)
	if len(got) != 1 || got[0].Date != "2024-04-01" {
		t.Fatalf("3m: unexpected result %+v", got)
	}
}

func TestScalePadsRange(t *testing.T) {
	min, max := Scale([]float64{4.0, 5.0})
	if math.Abs(min-3.9) > 1e-9 || math.Abs(max-5.1) > 1e-9 {
		t.Fatalf("expected [3.9, 5.1], got [%v, %v]", min, max)
	}
}

func TestScaleDegenerateRange(t *testing.T) {
	min, max := Scale([]float64{4.2})
	if math.Abs(min-3.7) > 1e-9 || math.Abs(max-4.7) > 1e-9 {
		t.Fatalf("single point: expected [3.7, 4.7], got [%v, %v]", min, max)
	}
	min, max = Scale([]float64{4.2, 4.2, 4.2})
	if math.Abs(min-3.7) > 1e-9 || math.Abs(max-4.7) > 1e-9 {
		t.Fatalf("flat series: expected [3.7, 4.7], got [%v, %v]", min, max)
	}
}

func TestLabelStepThinning(t *testing.T) {
	// 12.75 label slots across the default layout.
	if step := LabelStep(10, DefaultLayout); step != 1 {
		t.Fatalf("10 points: expected step 1, got %d", step)
	}
	if step := LabelStep(100, DefaultLayout); step != 8 {
		t.Fatalf("100 points: expected step 8, got %d", step)
	}
	if step := LabelStep(1, DefaultLayout); step != 1 {
		t.Fatalf("1 point: expected step 1, got %d", step)
	}
}

func TestProjectGeometry(t *testing.T) {
	records := []domain.WeightRecord{rec("2024-01-01", 4.0), rec("2024-02-01", 5.0)}
	p := Project(records, DefaultLayout)
	if len(p.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(p.Points))
	}
	l := DefaultLayout
	if p.Points[0].X != l.PadLeft {
		t.Fatalf("first point x: got %v, want %v", p.Points[0].X, l.PadLeft)
	}
	if got, want := p.Points[1].X, l.Width-l.PadRight; math.Abs(got-want) > 1e-9 {
		t.Fatalf("last point x: got %v, want %v", got, want)
	}
	// Heavier reading plots higher (smaller y).
	if p.Points[1].Y >= p.Points[0].Y {
		t.Fatalf("expected increasing weight to decrease y: %v vs %v", p.Points[1].Y, p.Points[0].Y)
	}
	if len(p.Grid) != 5 {
		t.Fatalf("expected 5 gridlines, got %d", len(p.Grid))
	}
	if !p.Points[0].Labeled || !p.Points[1].Labeled {
		t.Fatal("first and last points must always carry labels")
	}
}

func TestProjectEmpty(t *testing.T) {
	p := Project(nil, DefaultLayout)
	if len(p.Points) != 0 || len(p.Grid) != 0 {
		t.Fatalf("expected empty projection, got %+v", p)
	}
}

func TestProjectSinglePointNotDegenerate(t *testing.T) {
	p := Project([]domain.WeightRecord{rec("2024-01-01", 4.2)}, DefaultLayout)
	if p.Max <= p.Min {
		t.Fatalf("range must not be degenerate: [%v, %v]", p.Min, p.Max)
	}
	y := p.Points[0].Y
	if math.IsNaN(y) || math.IsInf(y, 0) {
		t.Fatalf("point y must be finite, got %v", y)
	}
}
