package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestInsertAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{Dataset: "iris.csv", Model: "RandomForestClassifier", ProblemType: "classification", Target: "species", Metric: 0.95, DurationMs: 1200, CreatedAt: base},
		{Dataset: "housing.csv", Model: "Ridge", ProblemType: "regression", Target: "price", Metric: 0.81, DurationMs: 900, CreatedAt: base.Add(time.Hour)},
		{Dataset: "iris.csv", Model: "SVC", ProblemType: "classification", Target: "species", Metric: 0.92, DurationMs: 1500, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, run := range runs {
		if _, err := store.InsertRun(ctx, run); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
	}

	all, err := store.ListRuns(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("runs = %d, want 3", len(all))
	}
	if all[0].Model != "SVC" {
		t.Errorf("most recent run = %s, want SVC", all[0].Model)
	}

	iris, err := store.ListRuns(ctx, Filter{Dataset: "iris.csv"})
	if err != nil {
		t.Fatalf("ListRuns filtered: %v", err)
	}
	if len(iris) != 2 {
		t.Errorf("iris runs = %d, want 2", len(iris))
	}

	regression, err := store.ListRuns(ctx, Filter{ProblemType: "regression"})
	if err != nil {
		t.Fatalf("ListRuns filtered: %v", err)
	}
	if len(regression) != 1 || regression[0].Metric != 0.81 {
		t.Errorf("regression runs = %v", regression)
	}

	since := base.Add(90 * time.Minute)
	recent, err := store.ListRuns(ctx, Filter{Since: &since})
	if err != nil {
		t.Fatalf("ListRuns since: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("recent runs = %d, want 1", len(recent))
	}

	limited, err := store.ListRuns(ctx, Filter{Limit: 2})
	if err != nil {
		t.Fatalf("ListRuns limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited runs = %d, want 2", len(limited))
	}
}

func TestRecentMetricsChronological(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, metric := range []float64{0.5, 0.6, 0.7, 0.8} {
		run := Run{
			Dataset: "d.csv", Model: "m", ProblemType: "classification", Target: "t",
			Metric: metric, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := store.InsertRun(ctx, run); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
	}

	metrics, err := store.RecentMetrics(ctx, 3)
	if err != nil {
		t.Fatalf("RecentMetrics: %v", err)
	}
	want := []float64{0.6, 0.7, 0.8}
	if len(metrics) != len(want) {
		t.Fatalf("metrics = %v", metrics)
	}
	for i := range want {
		if metrics[i] != want[i] {
			t.Errorf("metrics[%d] = %g, want %g", i, metrics[i], want[i])
		}
	}

	if none, err := store.RecentMetrics(ctx, 0); err != nil || none != nil {
		t.Errorf("zero limit = %v, %v", none, err)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.InsertRun(ctx, Run{Dataset: "a.csv", Model: "m", ProblemType: "classification", Target: "t", Metric: 0.9}); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		if err := reopened.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()
	runs, err := reopened.ListRuns(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("runs after reopen = %d, want 1", len(runs))
	}
}
