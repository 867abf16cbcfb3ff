package engine

import (
	"reflect"
	"testing"

	"github.com/mr-zlaam/googleMapScraper/models"
)

func TestAggregator_Columns(t *testing.T) {
	agg := NewAggregator()
	agg.Add(
		models.NewPlace("a", map[models.Field]string{models.FieldName: "A", models.FieldPhone: ""}),
		models.NewPlace("b", map[models.Field]string{models.FieldRating: "4.1"}),
		models.NewFailedPlace("c", "c", models.NewScrapeError(models.ErrCodeNavigation, "x", nil)),
		nil,
	)

	out := agg.Outcome(0)

	want := []string{"name", "phone", "rating", "url"}
	if !reflect.DeepEqual(out.Columns, want) {
		t.Errorf("columns = %v, want %v", out.Columns, want)
	}
	if out.Received != 3 {
		t.Errorf("received = %d, want 3", out.Received)
	}
}

func TestAggregator_OnlyFailures(t *testing.T) {
	agg := NewAggregator()
	agg.Add(models.NewFailedPlace("a", "a", models.NewScrapeError(models.ErrCodeNavigation, "x", nil)))

	out := agg.Outcome(0)

	if len(out.Succeeded) != 0 || len(out.Failed) != 1 {
		t.Fatalf("succeeded=%d failed=%d", len(out.Succeeded), len(out.Failed))
	}
	if !reflect.DeepEqual(out.Columns, []string{models.ColumnURL}) {
		t.Errorf("columns = %v", out.Columns)
	}
}

func TestAggregator_KeepsFirstPositionLastValue(t *testing.T) {
	agg := NewAggregator()
	agg.Add(
		models.NewPlace("x", map[models.Field]string{models.FieldName: "old"}),
		models.NewPlace("y", nil),
		models.NewPlace("x", map[models.Field]string{models.FieldName: "new"}),
	)

	out := agg.Outcome(0)

	if agg.Len() != 2 || len(out.Succeeded) != 2 {
		t.Fatalf("len = %d, succeeded = %d", agg.Len(), len(out.Succeeded))
	}
	if out.Succeeded[0].URL != "x" || out.Succeeded[0].Get(models.FieldName) != "new" {
		t.Errorf("first = %s/%s, want x/new", out.Succeeded[0].URL, out.Succeeded[0].Get(models.FieldName))
	}
}

func TestLimiter_SizeFloor(t *testing.T) {
	if got := NewLimiter(0).Size(); got != 1 {
		t.Errorf("NewLimiter(0).Size() = %d, want 1", got)
	}
	if got := NewLimiter(4).Size(); got != 4 {
		t.Errorf("NewLimiter(4).Size() = %d, want 4", got)
	}
}
