package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"organizer-api/models"
)

// Ключи кэшируемых ресурсов в хранилище
const (
	ActivityCacheKey = "activity_info"
	UserCacheKey     = "user_info"
)

// RefreshCachedUser — значение подсказки, означающее «обновить того,
// кто сейчас в кэше», вместо конкретного идентификатора.
const RefreshCachedUser = 0

// OrganizerAPI — часть клиента организатора, нужная кэшу.
type OrganizerAPI interface {
	ActivitiesInfo(ctx context.Context, actualDate string) ([]models.Activity, error)
	UserInfo(ctx context.Context, userID int) (*models.UserProfile, error)
}

// CacheManager держит по одной канонической копии каждого ресурса
// в хранилище и решает, можно ли отдать её без обращения к upstream.
// Одновременные вызовы не дедуплицируются: каждый сам проверяет свежесть,
// побеждает последняя запись.
type CacheManager struct {
	store BlobStore
	api   OrganizerAPI
	ttl   time.Duration
	now   func() time.Time
}

func NewCacheManager(store BlobStore, api OrganizerAPI, ttl time.Duration) *CacheManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CacheManager{
		store: store,
		api:   api,
		ttl:   ttl,
		now:   time.Now,
	}
}

// GetActivities отдаёт кэшированный список активностей, обновляя его при
// необходимости. Ошибка сети превращается в пустой список, запись в
// хранилище при этом не трогается.
func (m *CacheManager) GetActivities(ctx context.Context) []models.Activity {
	entry, ok := m.readActivityEntry(ctx)
	if ok && m.now().Sub(entry.UpdatedAt) <= m.ttl && len(entry.Activities) > 0 {
		return entry.Activities
	}

	// Дата запроса считается по UTC, чтобы не разъезжаться с сервером
	today := m.now().UTC().Format("2006-01-02")
	activities, err := m.api.ActivitiesInfo(ctx, today)
	if err != nil {
		log.Printf("CacheManager - failed to refresh activities: %v", err)
		return []models.Activity{}
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	m.writeEntry(ctx, ActivityCacheKey, models.ActivityCacheEntry{
		Activities: activities,
		UpdatedAt:  m.now(),
	})
	return activities
}

// RefreshUser обновляет кэш профиля, если он отсутствует, устарел, не
// совпадает с запрошенным пользователем или неполон. Вызывающий перечитывает
// хранилище через User после возврата.
func (m *CacheManager) RefreshUser(ctx context.Context, identityHint int) {
	entry, ok := m.readUserEntry(ctx)

	refresh := false
	switch {
	case !ok:
		refresh = true
	case m.now().Sub(entry.UpdatedAt) > m.ttl:
		refresh = true
	case identityHint == RefreshCachedUser:
		refresh = true
	case entry.ID != identityHint:
		refresh = true
	case entry.RelatedSubjects == nil:
		refresh = true
	}
	if !refresh {
		return
	}

	// Кого запрашивать: подсказку, если кэша нет или он про другого
	// пользователя, иначе того, кто уже в кэше
	target := identityHint
	if ok && (identityHint == RefreshCachedUser || entry.ID == identityHint) {
		target = entry.ID
	}

	profile, err := m.api.UserInfo(ctx, target)
	if err != nil {
		log.Printf("CacheManager - failed to refresh user %d: %v", target, err)
		return
	}

	m.writeEntry(ctx, UserCacheKey, models.UserCacheEntry{
		UserProfile: *profile,
		UpdatedAt:   m.now(),
	})
}

// User читает сохранённый профиль без проверки свежести.
func (m *CacheManager) User(ctx context.Context) (models.UserCacheEntry, bool) {
	return m.readUserEntry(ctx)
}

// InvalidateActivities удаляет кэш активностей, следующий вызов
// GetActivities пойдёт в upstream.
func (m *CacheManager) InvalidateActivities(ctx context.Context) {
	if err := m.store.Delete(ctx, ActivityCacheKey); err != nil {
		log.Printf("CacheManager - failed to invalidate %s: %v", ActivityCacheKey, err)
	}
}

// InvalidateUser удаляет кэш профиля.
func (m *CacheManager) InvalidateUser(ctx context.Context) {
	if err := m.store.Delete(ctx, UserCacheKey); err != nil {
		log.Printf("CacheManager - failed to invalidate %s: %v", UserCacheKey, err)
	}
}

func (m *CacheManager) readActivityEntry(ctx context.Context) (models.ActivityCacheEntry, bool) {
	var entry models.ActivityCacheEntry
	data, found := m.store.Get(ctx, ActivityCacheKey)
	if !found {
		return entry, false
	}
	// Нечитаемая запись равносильна отсутствующей
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("CacheManager - malformed %s entry: %v", ActivityCacheKey, err)
		return models.ActivityCacheEntry{}, false
	}
	return entry, true
}

func (m *CacheManager) readUserEntry(ctx context.Context) (models.UserCacheEntry, bool) {
	var entry models.UserCacheEntry
	data, found := m.store.Get(ctx, UserCacheKey)
	if !found {
		return entry, false
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("CacheManager - malformed %s entry: %v", UserCacheKey, err)
		return models.UserCacheEntry{}, false
	}
	return entry, true
}

// writeEntry заменяет запись целиком: сначала удаление, потом запись,
// чтобы две конфликтующие записи не существовали одновременно.
func (m *CacheManager) writeEntry(ctx context.Context, key string, entry interface{}) {
	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("CacheManager - failed to encode %s entry: %v", key, err)
		return
	}
	if err := m.store.Delete(ctx, key); err != nil {
		log.Printf("CacheManager - failed to clear %s entry: %v", key, err)
	}
	if err := m.store.Set(ctx, key, data); err != nil {
		log.Printf("CacheManager - failed to write %s entry: %v", key, err)
	}
}
