package obs

import (
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
)

var (
	MTrials         = stats.Int64("linsac/fit_trials", "search trials consumed by a fit", stats.UnitDimensionless)
	MInliers        = stats.Int64("linsac/fit_inliers", "inlier count of a fit", stats.UnitDimensionless)
	MOutliers       = stats.Int64("linsac/fit_outliers", "outlier count of a fit", stats.UnitDimensionless)
	MRefitFallbacks = stats.Int64("linsac/refit_fallbacks", "fits that fell back to the search model", stats.UnitDimensionless)
)

func Views() []*view.View {
	return []*view.View{
		{Name: "linsac/fit_trials", Measure: MTrials, Aggregation: view.Distribution(0, 10, 50, 100, 250, 500, 1000)},
		{Name: "linsac/fit_inliers", Measure: MInliers, Aggregation: view.Sum()},
		{Name: "linsac/fit_outliers", Measure: MOutliers, Aggregation: view.Sum()},
		{Name: "linsac/refit_fallbacks", Measure: MRefitFallbacks, Aggregation: view.Count()},
	}
}

func RegisterViews() error {
	return view.Register(Views()...)
}
