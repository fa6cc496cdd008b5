package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"organizer-api/config"
	"organizer-api/models"
)

// OrganizerService — клиент upstream API организатора.
type OrganizerService struct {
	baseURL string
	client  *http.Client
}

func NewOrganizerService(cfg *config.Config) *OrganizerService {
	return &OrganizerService{
		baseURL: strings.TrimRight(cfg.OrganizerAPIURL, "/"),
		client:  &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// ActivitiesInfo возвращает список активностей на указанную дату (YYYY-MM-DD).
func (s *OrganizerService) ActivitiesInfo(ctx context.Context, actualDate string) ([]models.Activity, error) {
	var payload struct {
		Activities []models.Activity `json:"activities"`
	}
	params := url.Values{"actualDate": {actualDate}}
	if err := s.get(ctx, "/activities/info/", params, &payload); err != nil {
		return nil, err
	}
	return payload.Activities, nil
}

// UserInfo возвращает профиль пользователя вместе со списком его асигнатур.
func (s *OrganizerService) UserInfo(ctx context.Context, userID int) (*models.UserProfile, error) {
	var payload struct {
		UserInformation models.UserProfile  `json:"userInformation"`
		SubjectsOfUser  []models.SubjectRef `json:"subjectsOfUser"`
	}
	params := url.Values{"userId": {strconv.Itoa(userID)}}
	if err := s.get(ctx, "/user/info/", params, &payload); err != nil {
		return nil, err
	}

	profile := payload.UserInformation
	profile.RelatedSubjects = payload.SubjectsOfUser
	if profile.RelatedSubjects == nil {
		profile.RelatedSubjects = []models.SubjectRef{}
	}
	return &profile, nil
}

// DailyCalendar возвращает запись календаря на сегодня, nil если её нет.
func (s *OrganizerService) DailyCalendar(ctx context.Context) (*models.CalendarDay, error) {
	var payload struct {
		Calendar []models.CalendarDay `json:"calendar"`
	}
	if err := s.get(ctx, "/calendar/info/daily/", nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Calendar) == 0 {
		return nil, nil
	}
	return &payload.Calendar[0], nil
}

// MonthCalendar возвращает дни календаря вокруг указанной даты (YYYY-MM-DD).
func (s *OrganizerService) MonthCalendar(ctx context.Context, calendarDate string) ([]models.CalendarDay, error) {
	var payload struct {
		Calendar []models.CalendarDay `json:"calendar"`
	}
	params := url.Values{"calendarDate": {calendarDate}}
	if err := s.get(ctx, "/calendar/info/", params, &payload); err != nil {
		return nil, err
	}
	return payload.Calendar, nil
}

// PendingActivities возвращает активности пользователя, ожидающие подтверждения.
func (s *OrganizerService) PendingActivities(ctx context.Context, userID int) ([]models.PendingActivity, error) {
	var payload struct {
		PendingList []models.PendingActivity `json:"pendingList"`
	}
	params := url.Values{"userId": {strconv.Itoa(userID)}}
	if err := s.get(ctx, "/activities/pending/info/", params, &payload); err != nil {
		return nil, err
	}
	return payload.PendingList, nil
}

// ConfirmActivity подтверждает пересчитанное расписание активности.
func (s *OrganizerService) ConfirmActivity(ctx context.Context, activityID int) error {
	body, err := json.Marshal(map[string]int{"activityId": activityID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/activities/confirm/", strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to confirm activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("confirm activity: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (s *OrganizerService) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := s.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach organizer api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("organizer api: unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode organizer response: %w", err)
	}
	return nil
}
