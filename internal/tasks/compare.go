package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
)

// ComparisonResult contains the overlap between two watchlists.
type ComparisonResult struct {
	UserA        string   `json:"user_a"`
	UserB        string   `json:"user_b"`
	Shared       []string `json:"shared"`        // titles on both lists, sorted
	OnlyA        []string `json:"only_a"`        // titles only on A's list, sorted
	OnlyB        []string `json:"only_b"`        // titles only on B's list, sorted
	Total        int      `json:"total"`         // size of the union
	MatchPercent float64  `json:"match_percent"` // 100 * len(Shared) / Total
}

// SharedCount returns the number of titles on both lists.
func (r *ComparisonResult) SharedCount() int {
	return len(r.Shared)
}

// Compare fetches both watchlists and computes their overlap.
//
// When either list is empty it returns [shared.ErrInsufficientData].
func (e *WatchlistEngine) Compare(ctx context.Context, userA, userB string, progress chan<- ProgressUpdate) (*ComparisonResult, error) {
	e.sendProgress(progress, fetchWatchlistUpdate(1, 2, userA))
	a, err := e.store.ListEntries(ctx, userA)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchWatchlistUpdate(2, 2, userB))
	b, err := e.store.ListEntries(ctx, userB)
	if err != nil {
		return nil, err
	}

	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("%w: one or both users have empty watchlists", shared.ErrInsufficientData)
	}

	e.sendProgress(progress, compareUpdate())
	result := CompareTitles(models.Titles(a), models.Titles(b))
	result.UserA, result.UserB = userA, userB
	return result, nil
}

// CompareTitles computes the set overlap of two title lists. Duplicates within a list count once.
func CompareTitles(a, b []string) *ComparisonResult {
	setA := toSet(a)
	setB := toSet(b)

	result := &ComparisonResult{Shared: []string{}, OnlyA: []string{}, OnlyB: []string{}}
	for t := range setA {
		if _, ok := setB[t]; ok {
			result.Shared = append(result.Shared, t)
		} else {
			result.OnlyA = append(result.OnlyA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			result.OnlyB = append(result.OnlyB, t)
		}
	}

	slices.Sort(result.Shared)
	slices.Sort(result.OnlyA)
	slices.Sort(result.OnlyB)

	result.Total = len(result.Shared) + len(result.OnlyA) + len(result.OnlyB)
	result.MatchPercent = MatchPercentage(len(result.Shared), result.Total)
	return result
}

// MatchPercentage returns 100*shared/total, or 0 when total is 0.
func MatchPercentage(shared, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(shared) / float64(total)
}

func toSet(titles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		set[t] = struct{}{}
	}
	return set
}
