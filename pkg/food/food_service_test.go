package food

import (
	"KeepFresh-Backend/domain"
	"KeepFresh-Backend/entities"
	"KeepFresh-Backend/pkg/clock"
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeFoodRepository is an in-memory stand-in for the persistence
// collaborator. It mirrors the real repository's ordering and owner-scoping
// semantics so the service can be exercised without a database.
type fakeFoodRepository struct {
	clk      clock.Clock
	items    []*entities.FoodItem
	failWith error
}

func (f *fakeFoodRepository) AddFoodItem(_ context.Context, item *entities.FoodItem) error {
	if f.failWith != nil {
		return f.failWith
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = f.clk.Now()
	}
	cp := *item
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeFoodRepository) GetFoodItemByID(_ context.Context, id string) (*entities.FoodItem, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, item := range f.items {
		if item.ID.String() == id {
			cp := *item
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFoodRepository) UpdateFoodItem(_ context.Context, item *entities.FoodItem) error {
	if f.failWith != nil {
		return f.failWith
	}
	for i, existing := range f.items {
		if existing.ID == item.ID {
			cp := *item
			f.items[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeFoodRepository) SetFinishedAt(_ context.Context, id string, userID string, finishedAt *time.Time) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	for _, item := range f.items {
		if item.ID.String() == id && item.UserID.String() == userID {
			if finishedAt == nil {
				item.FinishedAt = nil
			} else {
				at := *finishedAt
				item.FinishedAt = &at
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeFoodRepository) DeleteFoodItem(_ context.Context, id string, userID string) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	for i, item := range f.items {
		if item.ID.String() == id && item.UserID.String() == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeFoodRepository) GetActiveItems(_ context.Context, userID string, location *entities.StorageLocation) ([]*entities.FoodItem, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var result []*entities.FoodItem
	for _, item := range f.items {
		if item.UserID.String() != userID || item.IsFinished() {
			continue
		}
		if location != nil && item.Location != *location {
			continue
		}
		result = append(result, item)
	}
	// expiry ASC with NULLS LAST; insertion (created_at) order breaks ties
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].ExpiryDate, result[j].ExpiryDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return result, nil
}

func (f *fakeFoodRepository) GetFinishedItems(_ context.Context, userID string) ([]*entities.FoodItem, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var result []*entities.FoodItem
	for _, item := range f.items {
		if item.UserID.String() == userID && item.IsFinished() {
			result = append(result, item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeFoodRepository) DeleteFinishedBefore(_ context.Context, userID string, cutoff time.Time) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	var kept []*entities.FoodItem
	var removed int64
	for _, item := range f.items {
		if item.UserID.String() == userID && item.IsFinished() && item.FinishedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	f.items = kept
	return removed, nil
}

type fakeS3 struct{}

func (fakeS3) UploadFile(fileName string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	return folder + "/" + fileName, nil
}

func (fakeS3) UpdateFile(objectKey string, _ *multipart.FileHeader, _ ...string) (string, error) {
	return objectKey, nil
}

func (fakeS3) DeleteFile(string) error { return nil }

func (fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://test-bucket.s3.test.amazonaws.com/" + objectKey
}

func (fakeS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://test-bucket.s3.test.amazonaws.com/")
}

func newTestService(t *testing.T) (FoodService, *fakeFoodRepository, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	repo := &fakeFoodRepository{clk: clk}
	return NewFoodService(repo, fakeS3{}, clk), repo, clk
}

func addItem(t *testing.T, svc FoodService, userID string, req domain.AddFoodItemRequest) domain.FoodItemResponse {
	t.Helper()
	if req.EntryDate == "" {
		req.EntryDate = "2024-03-10"
	}
	res, err := svc.AddFoodItem(context.Background(), req, userID)
	require.NoError(t, err)
	return res
}

func TestAddFoodItemValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	tests := []struct {
		name    string
		req     domain.AddFoodItemRequest
		wantErr error
	}{
		{
			name:    "empty name",
			req:     domain.AddFoodItemRequest{Name: "  ", Location: "fridge", EntryDate: "2024-03-10"},
			wantErr: domain.ErrEmptyName,
		},
		{
			name:    "invalid location",
			req:     domain.AddFoodItemRequest{Name: "Milk", Location: "pantry", EntryDate: "2024-03-10"},
			wantErr: domain.ErrInvalidLocation,
		},
		{
			name:    "invalid category",
			req:     domain.AddFoodItemRequest{Name: "Milk", Location: "fridge", Category: "electronics", EntryDate: "2024-03-10"},
			wantErr: domain.ErrInvalidCategory,
		},
		{
			name:    "invalid entry date",
			req:     domain.AddFoodItemRequest{Name: "Milk", Location: "fridge", EntryDate: "10/03/2024"},
			wantErr: domain.ErrInvalidEntryDate,
		},
		{
			name:    "invalid expiry date",
			req:     domain.AddFoodItemRequest{Name: "Milk", Location: "fridge", EntryDate: "2024-03-10", ExpiryDate: "soon"},
			wantErr: domain.ErrInvalidExpiryDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddFoodItem(ctx, tt.req, userID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// nothing was persisted by the rejected requests
	items, err := svc.ListAllActive(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddFoodItemDefaultsCategory(t *testing.T) {
	svc, _, _ := newTestService(t)
	userID := uuid.NewString()

	res := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "Mystery jar", Location: "fridge"})
	assert.Equal(t, "other", res.Category)

	res = addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "Milk", Location: "fridge", Category: "dairy"})
	assert.Equal(t, "dairy", res.Category)
}

func TestAddFoodItemRequiresOwner(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddFoodItem(context.Background(), domain.AddFoodItemRequest{
		Name: "Milk", Location: "fridge", EntryDate: "2024-03-10",
	}, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestMarkFinishedRestoreRoundTrip(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	added := addItem(t, svc, userID, domain.AddFoodItemRequest{
		Name: "Leftover soup", Location: "fridge", Category: "other",
		EntryTime: "18:30", ExpiryDate: "2024-03-14", Notes: "use the blue pot",
	})

	require.NoError(t, svc.MarkFinished(ctx, added.ID, userID))

	finished, err := svc.ListFinished(ctx, userID)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	require.NotNil(t, finished[0].FinishedAt)
	assert.True(t, finished[0].FinishedAt.Equal(clk.Now()))

	require.NoError(t, svc.RestoreFoodItem(ctx, added.ID, userID))

	active, err := svc.ListAllActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	got := active[0]
	assert.Nil(t, got.FinishedAt)
	assert.Equal(t, added.Name, got.Name)
	assert.Equal(t, added.Location, got.Location)
	assert.Equal(t, added.Category, got.Category)
	assert.Equal(t, added.EntryDate, got.EntryDate)
	assert.Equal(t, added.EntryTime, got.EntryTime)
	assert.Equal(t, added.Notes, got.Notes)
	require.NotNil(t, got.ExpiryDate)
	assert.True(t, got.ExpiryDate.Equal(*added.ExpiryDate))
}

func TestMarkFinishedOverwritesTimestamp(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	added := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "Yogurt", Location: "fridge"})

	require.NoError(t, svc.MarkFinished(ctx, added.ID, userID))
	clk.Advance(2 * time.Hour)
	require.NoError(t, svc.MarkFinished(ctx, added.ID, userID))

	finished, err := svc.ListFinished(ctx, userID)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.True(t, finished[0].FinishedAt.Equal(clk.Now()), "second call restarts the retention window")
}

func TestRestoreActiveItemIsNoop(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	added := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "Butter", Location: "fridge", Notes: "salted"})

	require.NoError(t, svc.RestoreFoodItem(ctx, added.ID, userID))

	active, err := svc.ListAllActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Nil(t, active[0].FinishedAt)
	assert.Equal(t, "salted", active[0].Notes)
}

func TestMutationsAreOwnerScoped(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.NewString()
	stranger := uuid.NewString()

	added := addItem(t, svc, owner, domain.AddFoodItemRequest{Name: "Cheese", Location: "fridge"})

	assert.ErrorIs(t, svc.MarkFinished(ctx, added.ID, stranger), domain.ErrFoodItemNotFound)
	assert.ErrorIs(t, svc.RestoreFoodItem(ctx, added.ID, stranger), domain.ErrFoodItemNotFound)
	assert.ErrorIs(t, svc.DeleteFoodItem(ctx, added.ID, stranger), domain.ErrFoodItemNotFound)

	items, err := svc.ListAllActive(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, items, "queries never leak another owner's items")
}

func TestDeleteTwiceReturnsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	added := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "Old rice", Location: "fridge"})

	require.NoError(t, svc.DeleteFoodItem(ctx, added.ID, userID))
	assert.ErrorIs(t, svc.DeleteFoodItem(ctx, added.ID, userID), domain.ErrFoodItemNotFound)
}

func TestListActiveFiltersLocationAndState(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	fridgeItem := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "Milk", Location: "fridge"})
	addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "Peas", Location: "freezer"})
	finishedItem := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "Juice", Location: "fridge"})
	require.NoError(t, svc.MarkFinished(ctx, finishedItem.ID, userID))

	items, err := svc.ListActive(ctx, userID, "fridge")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, fridgeItem.ID, items[0].ID)

	_, err = svc.ListActive(ctx, userID, "cellar")
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}

func TestListActiveSortOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	// added in scrambled order; expected ascending by expiry, no-expiry last
	addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "third", Location: "fridge", ExpiryDate: "2024-01-03"})
	addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "first", Location: "fridge", ExpiryDate: "2024-01-01"})
	addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "shelf-stable", Location: "fridge"})
	addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "second", Location: "fridge", ExpiryDate: "2024-01-02"})

	items, err := svc.ListActive(ctx, userID, "fridge")
	require.NoError(t, err)
	require.Len(t, items, 4)

	var names []string
	for _, item := range items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"first", "second", "third", "shelf-stable"}, names)
}

func TestFridgeScenarioWithWarningItem(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	// clock sits at 2024-03-10 12:00 UTC, so this expiry is 12h away
	a := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "A", Location: "fridge"})
	b := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "B", Location: "fridge", ExpiryDate: "2024-03-11"})

	items, err := svc.ListActive(ctx, userID, "fridge")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
	assert.Equal(t, string(StatusWarning), items[0].Status)
	assert.Equal(t, string(StatusNone), items[1].Status)
}

func TestRetentionWindowBoundaries(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	added := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "Stew", Location: "fridge"})
	require.NoError(t, svc.MarkFinished(ctx, added.ID, userID))

	clk.Advance(23*time.Hour + 59*time.Minute)
	finished, err := svc.ListFinished(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, finished, 1, "still inside the retention window")

	clk.Advance(2 * time.Minute)
	finished, err = svc.ListFinished(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, finished, "past the retention window")

	// the sweep removed the row for good
	assert.ErrorIs(t, svc.RestoreFoodItem(ctx, added.ID, userID), domain.ErrFoodItemNotFound)
}

func TestSweepFinishedCounts(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	old1 := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "old1", Location: "fridge"})
	old2 := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "old2", Location: "freezer"})
	require.NoError(t, svc.MarkFinished(ctx, old1.ID, userID))
	require.NoError(t, svc.MarkFinished(ctx, old2.ID, userID))

	clk.Advance(25 * time.Hour)
	fresh := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "fresh", Location: "fridge"})
	require.NoError(t, svc.MarkFinished(ctx, fresh.ID, userID))

	removed, err := svc.SweepFinished(ctx, userID, clk.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	removed, err = svc.SweepFinished(ctx, userID, clk.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed, "second sweep finds nothing")
}

func TestListFinishedOrderedByCreatedAt(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	older := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "older", Location: "fridge"})
	clk.Advance(time.Hour)
	newer := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "newer", Location: "fridge"})

	// finish the newer item first; ordering must follow created_at anyway
	clk.Advance(time.Hour)
	require.NoError(t, svc.MarkFinished(ctx, newer.ID, userID))
	clk.Advance(time.Hour)
	require.NoError(t, svc.MarkFinished(ctx, older.ID, userID))

	finished, err := svc.ListFinished(ctx, userID)
	require.NoError(t, err)
	require.Len(t, finished, 2)
	assert.Equal(t, "newer", finished[0].Name)
	assert.Equal(t, "older", finished[1].Name)
}

func TestGetExpiringSummary(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	// clock sits at 2024-03-10 12:00 UTC
	addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "warning fridge", Location: "fridge", ExpiryDate: "2024-03-11"})
	addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "expired fridge", Location: "fridge", ExpiryDate: "2024-03-09"})
	addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "warning freezer", Location: "freezer", ExpiryDate: "2024-03-11"})
	addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "ok freezer", Location: "freezer", ExpiryDate: "2024-04-01"})
	addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "no expiry", Location: "fridge"})

	summary, err := svc.GetExpiringSummary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Fridge)
	assert.Equal(t, 1, summary.Freezer)
	assert.Equal(t, 3, summary.Total)
}

func TestRepositoryFailuresSurfaceAsPersistenceErrors(t *testing.T) {
	svc, repo, clk := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	added := addItem(t, svc, userID, domain.AddFoodItemRequest{Name: "Milk", Location: "fridge"})

	repo.failWith = assert.AnError

	_, err := svc.AddFoodItem(ctx, domain.AddFoodItemRequest{Name: "Eggs", Location: "fridge", EntryDate: "2024-03-10"}, userID)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	assert.ErrorIs(t, svc.MarkFinished(ctx, added.ID, userID), domain.ErrPersistence)
	assert.ErrorIs(t, svc.RestoreFoodItem(ctx, added.ID, userID), domain.ErrPersistence)
	assert.ErrorIs(t, svc.DeleteFoodItem(ctx, added.ID, userID), domain.ErrPersistence)

	_, err = svc.ListAllActive(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	_, err = svc.ListFinished(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	_, err = svc.SweepFinished(ctx, userID, clk.Now())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
