package groups

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// seedTontines creates groups g<n> with created_at increasing by n, owned by owner.
func seedTontines(repo *fakeGroupRepo, owner string, ids ...int) {
	for _, id := range ids {
		repo.seedGroup(Group{
			ID:        fmt.Sprintf("g%02d", id),
			Name:      fmt.Sprintf("Tontine %d", id),
			CreatedBy: owner,
			CreatedAt: baseTime.Add(time.Duration(id) * time.Hour),
		})
	}
}

func pageIDs(page Page) []string {
	ids := make([]string, 0, len(page.Groups))
	for _, g := range page.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}

func TestFetchPageOwnedAndMemberGroups(t *testing.T) {
	repo := newFakeGroupRepo()
	seedTontines(repo, "u1", 1, 2, 3)
	seedTontines(repo, "u2", 4)
	repo.seedMember(Membership{GroupID: "g03", UserID: "u1", Role: RoleMember})
	repo.seedMember(Membership{GroupID: "g04", UserID: "u1", Role: RoleMember})

	fetcher := NewPageFetcher(repo)
	ctx := context.Background()

	first, err := fetcher.FetchPage(ctx, "u1", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"g04", "g03"}, pageIDs(first))
	assert.True(t, first.HasMore)
	require.NotNil(t, first.NextPage())
	assert.Equal(t, 1, *first.NextPage())

	second, err := fetcher.FetchPage(ctx, "u1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"g02", "g01"}, pageIDs(second))
	assert.False(t, second.HasMore, "an exactly full last page has no successor")
	assert.Nil(t, second.NextPage())

	third, err := fetcher.FetchPage(ctx, "u1", 2, 2)
	require.NoError(t, err)
	assert.Empty(t, third.Groups)
	assert.False(t, third.HasMore)
}

func TestFetchPageDeduplicatesOwnedMembership(t *testing.T) {
	repo := newFakeGroupRepo()
	seedTontines(repo, "u1", 1, 2, 3)
	for _, id := range []string{"g01", "g02", "g03"} {
		repo.seedMember(Membership{GroupID: id, UserID: "u1", Role: RoleOwner})
	}

	page, err := NewPageFetcher(repo).FetchPage(context.Background(), "u1", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"g03", "g02"}, pageIDs(page))
	assert.True(t, page.HasMore, "duplicates must not hide the remaining group")

	page, err = NewPageFetcher(repo).FetchPage(context.Background(), "u1", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"g03", "g02", "g01"}, pageIDs(page))
	assert.False(t, page.HasMore)
}

func TestFetchPagesAreDisjointAndComplete(t *testing.T) {
	for _, pageSize := range []int{1, 2, 3, 5, 7, 20} {
		t.Run(fmt.Sprintf("page_size_%d", pageSize), func(t *testing.T) {
			repo := newFakeGroupRepo()
			seedTontines(repo, "u1", 1, 3, 5, 7, 9, 11, 12)
			seedTontines(repo, "u2", 2, 4, 6, 8, 10, 13)
			for _, id := range []int{2, 3, 6, 9, 10, 13} {
				repo.seedMember(Membership{GroupID: fmt.Sprintf("g%02d", id), UserID: "u1", Role: RoleMember})
			}
			want := map[string]bool{}
			for _, id := range []int{1, 2, 3, 5, 6, 7, 9, 10, 11, 12, 13} {
				want[fmt.Sprintf("g%02d", id)] = true
			}

			fetcher := NewPageFetcher(repo)
			seen := map[string]bool{}
			for page := 0; ; page++ {
				require.Less(t, page, 50)
				result, err := fetcher.FetchPage(context.Background(), "u1", page, pageSize)
				require.NoError(t, err)
				require.LessOrEqual(t, len(result.Groups), pageSize)
				for _, id := range pageIDs(result) {
					assert.False(t, seen[id], "group %s appeared on two pages", id)
					seen[id] = true
				}
				if !result.HasMore {
					break
				}
				assert.Len(t, result.Groups, pageSize)
			}
			assert.Equal(t, want, seen)
		})
	}
}

func TestFetchPageSkipsMemberQueryWithoutMemberships(t *testing.T) {
	repo := newFakeGroupRepo()
	seedTontines(repo, "u1", 1)

	page, err := NewPageFetcher(repo).FetchPage(context.Background(), "u1", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"g01"}, pageIDs(page))
	assert.Zero(t, repo.callCount("ListGroupsByIDs"))
}

func TestFetchPagePropagatesQueryFailures(t *testing.T) {
	boom := errors.New("connection reset")

	cases := map[string]func(*fakeGroupRepo){
		"owned":       func(r *fakeGroupRepo) { r.failOwned = boom },
		"memberships": func(r *fakeGroupRepo) { r.failMemberships = boom },
		"by ids":      func(r *fakeGroupRepo) { r.failByIDs = boom },
	}
	for name, breakRepo := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newFakeGroupRepo()
			seedTontines(repo, "u1", 1)
			seedTontines(repo, "u2", 2)
			repo.seedMember(Membership{GroupID: "g02", UserID: "u1", Role: RoleMember})
			breakRepo(repo)

			page, err := NewPageFetcher(repo).FetchPage(context.Background(), "u1", 0, 5)
			require.ErrorIs(t, err, boom)
			assert.Empty(t, page.Groups)
		})
	}
}

func TestFetchPageRejectsInvalidWindow(t *testing.T) {
	fetcher := NewPageFetcher(newFakeGroupRepo())

	_, err := fetcher.FetchPage(context.Background(), "u1", -1, 10)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = fetcher.FetchPage(context.Background(), "u1", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestFetchPageRejectsOverflowingWindow(t *testing.T) {
	repo := newFakeGroupRepo()
	seedTontines(repo, "u1", 1, 2, 3)
	fetcher := NewPageFetcher(repo)
	ctx := context.Background()

	cases := []struct {
		page     int
		pageSize int
	}{
		{page: math.MaxInt64/3 + 1, pageSize: 3},
		{page: math.MaxInt, pageSize: 1},
		{page: 1, pageSize: math.MaxInt},
		{page: (math.MaxInt-1)/20, pageSize: 20},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_x_%d", tc.page, tc.pageSize), func(t *testing.T) {
			page, err := fetcher.FetchPage(ctx, "u1", tc.page, tc.pageSize)
			require.ErrorIs(t, err, ErrInvalidPage)
			assert.Empty(t, page.Groups)
		})
	}
	assert.Zero(t, repo.callCount("ListOwnedGroups"), "rejected windows never reach the repository")
}

func TestFetchPageLargestWindow(t *testing.T) {
	repo := newFakeGroupRepo()
	seedTontines(repo, "u1", 1, 2, 3)
	fetcher := NewPageFetcher(repo)

	last := (math.MaxInt-1)/20 - 1
	page, err := fetcher.FetchPage(context.Background(), "u1", last, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Groups)
	assert.False(t, page.HasMore)
	assert.Equal(t, last, page.Page)

	page, err = fetcher.FetchPage(context.Background(), "u1", 0, math.MaxInt-1)
	require.NoError(t, err)
	assert.Equal(t, []string{"g03", "g02", "g01"}, pageIDs(page))
	assert.False(t, page.HasMore)
}

func TestMergeGroupsLastWriteWins(t *testing.T) {
	older := Group{ID: "g1", Name: "old name", CreatedAt: baseTime}
	newer := Group{ID: "g1", Name: "new name", CreatedAt: baseTime}
	other := Group{ID: "g2", CreatedAt: baseTime}

	merged := mergeGroups([]Group{older, other}, []Group{newer})
	require.Len(t, merged, 2)
	assert.Equal(t, "g2", merged[0].ID, "equal timestamps order by id descending")
	assert.Equal(t, "new name", merged[1].Name)
}
