package groups

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"
)

// PageFetcher pages through the groups a user owns or is a member of.
//
// Owned and member groups come from separate queries. Each query returns its
// first offset+pageSize+1 rows, so the merged, de-duplicated list holds the
// true top rows of the union and one probe row past the window tells whether
// another page exists.
type PageFetcher struct {
	src PageSource
}

func NewPageFetcher(src PageSource) *PageFetcher {
	return &PageFetcher{src: src}
}

func (f *PageFetcher) FetchPage(ctx context.Context, userID string, page, pageSize int) (Page, error) {
	// The probe limit (page+1)*pageSize+1 must fit in an int.
	if page < 0 || pageSize < 1 || page > (math.MaxInt-1)/pageSize-1 {
		return Page{}, fmt.Errorf("%w: page=%d page_size=%d", ErrInvalidPage, page, pageSize)
	}

	offset := page * pageSize
	limit := offset + pageSize + 1

	var (
		owned     []Group
		memberIDs []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = f.src.ListOwnedGroups(gctx, userID, limit)
		if err != nil {
			return fmt.Errorf("list owned groups: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		memberIDs, err = f.src.ListMembershipGroupIDs(gctx, userID)
		if err != nil {
			return fmt.Errorf("list membership group ids: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	var joined []Group
	if len(memberIDs) > 0 {
		var err error
		joined, err = f.src.ListGroupsByIDs(ctx, memberIDs, limit)
		if err != nil {
			return Page{}, fmt.Errorf("list member groups: %w", err)
		}
	}

	merged := mergeGroups(owned, joined)

	result := Page{Page: page, PageSize: pageSize, Groups: []Group{}}
	if offset < len(merged) {
		end := min(offset+pageSize, len(merged))
		result.Groups = merged[offset:end]
	}
	result.HasMore = len(merged) > offset+pageSize
	return result, nil
}

// mergeGroups unions the lists keeping the last copy of each id, ordered
// newest first with id as the tie-breaker.
func mergeGroups(lists ...[]Group) []Group {
	index := make(map[string]int)
	var merged []Group
	for _, list := range lists {
		for _, group := range list {
			if i, ok := index[group.ID]; ok {
				merged[i] = group
				continue
			}
			index[group.ID] = len(merged)
			merged = append(merged, group)
		}
	}

	slices.SortFunc(merged, func(a, b Group) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return merged
}
