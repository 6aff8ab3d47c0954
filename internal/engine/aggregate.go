package engine

import (
	"context"
	"runtime"
	"sort"

	"github.com/Veraticus/punchgrid/internal/model"
	"golang.org/x/sync/errgroup"
)

// Aggregate folds punches into an attendance index and runs the estimation
// pass. The result does not depend on the order of punches.
func Aggregate(punches []model.PunchRecord) model.AttendanceIndex {
	idx := model.AttendanceIndex{}
	for _, p := range punches {
		idx.Get(p.Date, p.Employee).Observe(p)
	}
	idx.Finalize()
	return idx
}

// AggregateByDate produces the same index as Aggregate but folds each date
// partition on its own goroutine. Partitions are merged sequentially.
// workers <= 0 uses GOMAXPROCS.
func AggregateByDate(ctx context.Context, punches []model.PunchRecord, workers int) (model.AttendanceIndex, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	partitions := make(map[model.CalendarDate][]model.PunchRecord)
	for _, p := range punches {
		partitions[p.Date] = append(partitions[p.Date], p)
	}

	dates := make([]model.CalendarDate, 0, len(partitions))
	for d := range partitions {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	results := make([]model.AttendanceIndex, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d := range dates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Aggregate(partitions[d])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(model.AttendanceIndex, len(dates))
	for i, d := range dates {
		merged[d] = results[i][d]
	}
	return merged, nil
}
