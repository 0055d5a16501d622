package dataset

import (
	"fmt"
	"math"

	"github.com/Alias1177/gdpforecast/internal/model"
)

// SplitIndex returns floor(ratio * n), the first row of the test segment
func SplitIndex(n int, ratio float64) int {
	return int(math.Floor(ratio * float64(n)))
}

// SplitChronological partitions the table by position: the first
// floor(ratio*N) rows train, the rest test. Row order is preserved.
func SplitChronological(t *model.Table, ratio float64) (train, test *model.Table, err error) {
	n := t.Len()
	if n < 2 {
		return nil, nil, &model.ShapeError{Op: "split", Reason: fmt.Sprintf("need at least 2 rows, got %d", n)}
	}
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, &model.ShapeError{Op: "split", Reason: fmt.Sprintf("ratio must be in (0, 1), got %v", ratio)}
	}

	idx := SplitIndex(n, ratio)
	if idx == 0 || idx == n {
		return nil, nil, &model.ShapeError{
			Op:     "split",
			Reason: fmt.Sprintf("ratio %v leaves an empty segment for %d rows", ratio, n),
		}
	}

	return t.Slice(0, idx), t.Slice(idx, n), nil
}
