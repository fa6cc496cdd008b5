package models

import "time"

// ActivityCacheEntry хранится под ключом "activity_info".
type ActivityCacheEntry struct {
	Activities []Activity `json:"activities"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// UserCacheEntry хранится под ключом "user_info".
// Поля профиля лежат в корне JSON рядом с updatedAt.
type UserCacheEntry struct {
	UserProfile
	UpdatedAt time.Time `json:"updatedAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
