package search

import "context"

// FacetSummary maps a facet column to its top values.
type FacetSummary map[Column][]FacetValue

// Aggregate computes every facet against the same predicate. Each facet is its
// own aggregate query; the first failure aborts the whole summary.
func Aggregate(ctx context.Context, r Reader, pred Predicate, specs []FacetSpec) (FacetSummary, error) {
	summary := make(FacetSummary, len(specs))
	for _, spec := range specs {
		values, err := r.CountDistinct(ctx, pred, spec)
		if err != nil {
			return nil, err
		}
		if values == nil {
			values = []FacetValue{}
		}
		summary[spec.Column] = values
	}
	return summary, nil
}
