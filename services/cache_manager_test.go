package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"organizer-api/models"
)

type fakeOrganizer struct {
	activities      []models.Activity
	activitiesErr   error
	activitiesCalls int
	lastDate        string

	user      *models.UserProfile
	userErr   error
	userCalls int
	lastUser  int
}

func (f *fakeOrganizer) ActivitiesInfo(_ context.Context, actualDate string) ([]models.Activity, error) {
	f.activitiesCalls++
	f.lastDate = actualDate
	if f.activitiesErr != nil {
		return nil, f.activitiesErr
	}
	return f.activities, nil
}

func (f *fakeOrganizer) UserInfo(_ context.Context, userID int) (*models.UserProfile, error) {
	f.userCalls++
	f.lastUser = userID
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func newTestManager(api OrganizerAPI, now time.Time) (*CacheManager, *MemoryStore) {
	store := NewMemoryStore()
	manager := NewCacheManager(store, api, 30*time.Minute)
	manager.now = func() time.Time { return now }
	return manager, store
}

func seedActivityCache(t *testing.T, store *MemoryStore, entry models.ActivityCacheEntry) {
	t.Helper()
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("failed to encode entry: %v", err)
	}
	if err := store.Set(context.Background(), ActivityCacheKey, data); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
}

func seedUserCache(t *testing.T, store *MemoryStore, entry models.UserCacheEntry) {
	t.Helper()
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("failed to encode entry: %v", err)
	}
	if err := store.Set(context.Background(), UserCacheKey, data); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
}

func TestGetActivitiesReturnsFreshCacheWithoutFetch(t *testing.T) {
	fetched := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	api := &fakeOrganizer{}
	manager, store := newTestManager(api, fetched.Add(29*time.Minute))

	cached := []models.Activity{{ID: 1, Name: "Practica 1", SubjectName: "Math"}}
	seedActivityCache(t, store, models.ActivityCacheEntry{Activities: cached, UpdatedAt: fetched})

	got := manager.GetActivities(context.Background())
	if api.activitiesCalls != 0 {
		t.Fatalf("expected no upstream calls, got %d", api.activitiesCalls)
	}
	if len(got) != 1 || got[0].Name != "Practica 1" {
		t.Fatalf("expected cached payload back, got %+v", got)
	}
}

func TestGetActivitiesRefreshesStaleCacheOnce(t *testing.T) {
	fetched := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	api := &fakeOrganizer{activities: []models.Activity{{ID: 2, Name: "Lab 2"}}}
	manager, store := newTestManager(api, fetched.Add(31*time.Minute))

	seedActivityCache(t, store, models.ActivityCacheEntry{
		Activities: []models.Activity{{ID: 1, Name: "Old"}},
		UpdatedAt:  fetched,
	})

	got := manager.GetActivities(context.Background())
	if api.activitiesCalls != 1 {
		t.Fatalf("expected exactly one refresh attempt, got %d", api.activitiesCalls)
	}
	if len(got) != 1 || got[0].Name != "Lab 2" {
		t.Fatalf("expected refreshed payload, got %+v", got)
	}
}

func TestGetActivitiesEmptyCacheForcesRefresh(t *testing.T) {
	api := &fakeOrganizer{activities: []models.Activity{{ID: 1}}}
	manager, _ := newTestManager(api, time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC))

	manager.GetActivities(context.Background())
	if api.activitiesCalls != 1 {
		t.Fatalf("expected one fetch for empty cache, got %d", api.activitiesCalls)
	}
}

func TestGetActivitiesEmptyPayloadForcesRefresh(t *testing.T) {
	fetched := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	api := &fakeOrganizer{activities: []models.Activity{{ID: 3}}}
	manager, store := newTestManager(api, fetched.Add(time.Minute))

	seedActivityCache(t, store, models.ActivityCacheEntry{Activities: []models.Activity{}, UpdatedAt: fetched})

	got := manager.GetActivities(context.Background())
	if api.activitiesCalls != 1 {
		t.Fatalf("expected refresh for empty payload, got %d calls", api.activitiesCalls)
	}
	if len(got) != 1 {
		t.Fatalf("expected refreshed payload, got %+v", got)
	}
}

func TestGetActivitiesRequestsUTCDate(t *testing.T) {
	// 23:30 в UTC уже следующий день по многим локальным зонам,
	// дата запроса обязана считаться по UTC
	now := time.Date(2025, 7, 7, 23, 30, 0, 0, time.UTC)
	api := &fakeOrganizer{}
	manager, _ := newTestManager(api, now)

	manager.GetActivities(context.Background())
	if api.lastDate != "2025-07-07" {
		t.Fatalf("expected actualDate 2025-07-07, got %s", api.lastDate)
	}
}

func TestGetActivitiesAtomicReplace(t *testing.T) {
	fetched := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	now := fetched.Add(40 * time.Minute)
	api := &fakeOrganizer{activities: []models.Activity{{ID: 9, Name: "New"}}}
	manager, store := newTestManager(api, now)

	seedActivityCache(t, store, models.ActivityCacheEntry{
		Activities: []models.Activity{{ID: 1, Name: "Old"}},
		UpdatedAt:  fetched,
	})

	manager.GetActivities(context.Background())

	data, found := store.Get(context.Background(), ActivityCacheKey)
	if !found {
		t.Fatalf("expected entry after refresh")
	}
	var entry models.ActivityCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("failed to decode stored entry: %v", err)
	}
	if !entry.UpdatedAt.Equal(now) {
		t.Fatalf("expected updatedAt %v, got %v", now, entry.UpdatedAt)
	}
	if len(entry.Activities) != 1 || entry.Activities[0].Name != "New" {
		t.Fatalf("expected stored payload to be exactly the fetched list, got %+v", entry.Activities)
	}
}

func TestGetActivitiesNetworkFailureLeavesCacheIntact(t *testing.T) {
	fetched := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	api := &fakeOrganizer{activitiesErr: errors.New("connection refused")}
	manager, store := newTestManager(api, fetched.Add(time.Hour))

	seeded := models.ActivityCacheEntry{
		Activities: []models.Activity{{ID: 1, Name: "Kept"}},
		UpdatedAt:  fetched,
	}
	seedActivityCache(t, store, seeded)
	before, _ := store.Get(context.Background(), ActivityCacheKey)

	got := manager.GetActivities(context.Background())
	if len(got) != 0 {
		t.Fatalf("expected empty result on failure, got %+v", got)
	}

	after, found := store.Get(context.Background(), ActivityCacheKey)
	if !found {
		t.Fatalf("expected seeded entry to survive the failed refresh")
	}
	if string(before) != string(after) {
		t.Fatalf("expected stored entry unchanged, got %s", after)
	}
}

func TestGetActivitiesMalformedCacheTreatedAsAbsent(t *testing.T) {
	api := &fakeOrganizer{activities: []models.Activity{{ID: 4}}}
	manager, store := newTestManager(api, time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC))

	if err := store.Set(context.Background(), ActivityCacheKey, []byte("{not json")); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	got := manager.GetActivities(context.Background())
	if api.activitiesCalls != 1 {
		t.Fatalf("expected refresh for malformed cache, got %d calls", api.activitiesCalls)
	}
	if len(got) != 1 {
		t.Fatalf("expected refreshed payload, got %+v", got)
	}
}

func TestRefreshUserIdentityMismatchForcesRefresh(t *testing.T) {
	fetched := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	api := &fakeOrganizer{user: &models.UserProfile{
		ID:              7,
		Username:        "maria",
		RelatedSubjects: []models.SubjectRef{{SubjectID: 1, SubjectName: "Math"}},
	}}
	manager, store := newTestManager(api, fetched.Add(time.Minute))

	seedUserCache(t, store, models.UserCacheEntry{
		UserProfile: models.UserProfile{
			ID:              5,
			Username:        "pedro",
			RelatedSubjects: []models.SubjectRef{{SubjectID: 2, SubjectName: "Physics"}},
		},
		UpdatedAt: fetched,
	})

	manager.RefreshUser(context.Background(), 7)
	if api.userCalls != 1 {
		t.Fatalf("expected one refresh, got %d", api.userCalls)
	}
	if api.lastUser != 7 {
		t.Fatalf("expected outgoing request identity 7, got %d", api.lastUser)
	}

	user, ok := manager.User(context.Background())
	if !ok || user.ID != 7 {
		t.Fatalf("expected stored profile for user 7, got %+v ok=%v", user, ok)
	}
}

func TestRefreshUserFreshMatchingCacheSkipsFetch(t *testing.T) {
	fetched := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	api := &fakeOrganizer{}
	manager, store := newTestManager(api, fetched.Add(time.Minute))

	seedUserCache(t, store, models.UserCacheEntry{
		UserProfile: models.UserProfile{
			ID:              5,
			RelatedSubjects: []models.SubjectRef{{SubjectID: 2, SubjectName: "Physics"}},
		},
		UpdatedAt: fetched,
	})

	manager.RefreshUser(context.Background(), 5)
	if api.userCalls != 0 {
		t.Fatalf("expected no refresh for fresh matching cache, got %d", api.userCalls)
	}
}

func TestRefreshUserSentinelRefreshesCachedIdentity(t *testing.T) {
	fetched := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	api := &fakeOrganizer{user: &models.UserProfile{
		ID:              5,
		RelatedSubjects: []models.SubjectRef{{SubjectID: 2, SubjectName: "Physics"}},
	}}
	manager, store := newTestManager(api, fetched.Add(time.Minute))

	seedUserCache(t, store, models.UserCacheEntry{
		UserProfile: models.UserProfile{
			ID:              5,
			RelatedSubjects: []models.SubjectRef{{SubjectID: 2, SubjectName: "Physics"}},
		},
		UpdatedAt: fetched,
	})

	manager.RefreshUser(context.Background(), RefreshCachedUser)
	if api.userCalls != 1 {
		t.Fatalf("expected forced refresh, got %d calls", api.userCalls)
	}
	if api.lastUser != 5 {
		t.Fatalf("expected refresh of cached identity 5, got %d", api.lastUser)
	}
}

func TestRefreshUserMissingSubjectsForcesRefresh(t *testing.T) {
	fetched := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	api := &fakeOrganizer{user: &models.UserProfile{
		ID:              5,
		RelatedSubjects: []models.SubjectRef{{SubjectID: 2, SubjectName: "Physics"}},
	}}
	manager, store := newTestManager(api, fetched.Add(time.Minute))

	// relatedSubjectsList отсутствует в сохранённом JSON
	if err := store.Set(context.Background(), UserCacheKey,
		[]byte(`{"Id":5,"Username":"pedro","updatedAt":"`+fetched.Format(time.RFC3339)+`"}`)); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	manager.RefreshUser(context.Background(), 5)
	if api.userCalls != 1 {
		t.Fatalf("expected refresh when subjects list missing, got %d calls", api.userCalls)
	}
}

func TestRefreshUserNetworkFailureLeavesCacheIntact(t *testing.T) {
	fetched := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	api := &fakeOrganizer{userErr: errors.New("connection refused")}
	manager, store := newTestManager(api, fetched.Add(time.Hour))

	seedUserCache(t, store, models.UserCacheEntry{
		UserProfile: models.UserProfile{
			ID:              5,
			Username:        "pedro",
			RelatedSubjects: []models.SubjectRef{{SubjectID: 2, SubjectName: "Physics"}},
		},
		UpdatedAt: fetched,
	})
	before, _ := store.Get(context.Background(), UserCacheKey)

	manager.RefreshUser(context.Background(), 5)

	after, found := store.Get(context.Background(), UserCacheKey)
	if !found {
		t.Fatalf("expected seeded entry to survive the failed refresh")
	}
	if string(before) != string(after) {
		t.Fatalf("expected stored entry unchanged, got %s", after)
	}
}

func TestInvalidateActivitiesDeletesEntry(t *testing.T) {
	api := &fakeOrganizer{}
	manager, store := newTestManager(api, time.Now())

	seedActivityCache(t, store, models.ActivityCacheEntry{
		Activities: []models.Activity{{ID: 1}},
		UpdatedAt:  time.Now(),
	})

	manager.InvalidateActivities(context.Background())
	if _, found := store.Get(context.Background(), ActivityCacheKey); found {
		t.Fatalf("expected entry to be deleted")
	}
}
