package services

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"organizer-api/models"
)

// Пороги нагрузки дня по суммарным часам
const (
	highLoadHours   = 4
	mediumLoadHours = 2
)

// AggregatorService превращает плоские списки активностей и дней календаря
// в готовые для отрисовки структуры. Чистое преобразование, в сеть не ходит.
type AggregatorService struct {
	colors *ColorPicker
}

func NewAggregatorService(colors *ColorPicker) *AggregatorService {
	return &AggregatorService{colors: colors}
}

func (s *AggregatorService) Colors() *ColorPicker {
	return s.colors
}

// BucketByDay раскладывает дни календаря по ячейкам отображаемого месяца.
// Каждый день месяца получает bucket: с данными, без данных или (для
// записей вне месяца) приглушённый. Праздник и нагрузка независимы.
func (s *AggregatorService) BucketByDay(days []models.CalendarDay, reference time.Time) map[string]models.DayBucket {
	buckets := make(map[string]models.DayBucket)

	matched := make(map[string]models.CalendarDay, len(days))
	for _, day := range days {
		date, err := time.Parse("2006-01-02", day.CalendarDate)
		if err != nil {
			continue
		}
		key := date.Format("2006-01-02")
		if date.Year() == reference.Year() && date.Month() == reference.Month() {
			matched[key] = day
			continue
		}
		// Запись вне активного месяца отрисовывается приглушённой
		buckets[key] = models.DayBucket{
			Date:  key,
			State: models.DayStateOutside,
		}
	}

	first := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, time.UTC)
	for cursor := first; cursor.Month() == first.Month(); cursor = cursor.AddDate(0, 0, 1) {
		key := cursor.Format("2006-01-02")
		day, ok := matched[key]
		if !ok {
			// День месяца без записи календаря: «нет данных», не ноль часов
			buckets[key] = models.DayBucket{
				Date:  key,
				State: models.DayStateNoData,
			}
			continue
		}

		activities := decodeCalendarActivities(day.Activities)
		total := 0.0
		for _, activity := range activities {
			total += activity.Hours
		}

		buckets[key] = models.DayBucket{
			Date:       key,
			State:      models.DayStateMatched,
			DayType:    day.DayType,
			WeekDay:    day.WeekDay,
			Holiday:    IsHoliday(day.DayType),
			Severity:   severityFor(total),
			Activities: activities,
			TotalHours: total,
		}
	}

	return buckets
}

// DecodeDay разбирает активности одного дня календаря.
func (s *AggregatorService) DecodeDay(day models.CalendarDay) []models.CalendarActivity {
	return decodeCalendarActivities(day.Activities)
}

// FilterBySubjects оставляет только активности по асигнатурам пользователя.
func (s *AggregatorService) FilterBySubjects(activities []models.CalendarActivity, subjects []models.SubjectRef) []models.CalendarActivity {
	related := make(map[int]string, len(subjects))
	for _, subject := range subjects {
		related[subject.SubjectID] = subject.SubjectName
	}

	filtered := make([]models.CalendarActivity, 0, len(activities))
	for _, activity := range activities {
		if _, ok := related[activity.Subject]; ok {
			filtered = append(filtered, activity)
		}
	}
	return filtered
}

// RelevantActivities возвращает limit активностей с самым ранним началом.
func (s *AggregatorService) RelevantActivities(activities []models.Activity, limit int) []models.Activity {
	sorted := make([]models.Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return parseWhen(sorted[i].Start).Before(parseWhen(sorted[j].Start))
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// ScheduleBounds возвращает границы навигации: первый день месяца самой
// ранней точки и последний день месяца самой поздней. nil — границ нет,
// навигация не ограничивается.
func (s *AggregatorService) ScheduleBounds(points []models.SchedulePoint) *models.ScheduleBounds {
	var min, max time.Time
	for _, point := range points {
		day, err := time.Parse("2006-01-02", point.Day)
		if err != nil {
			continue
		}
		if min.IsZero() || day.Before(min) {
			min = day
		}
		if max.IsZero() || day.After(max) {
			max = day
		}
	}
	if min.IsZero() {
		return nil
	}

	return &models.ScheduleBounds{
		Min: time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.UTC),
		Max: time.Date(max.Year(), max.Month()+1, 0, 0, 0, 0, 0, time.UTC),
	}
}

// CanGoPrev сообщает, можно ли листать календарь на месяц назад.
func (s *AggregatorService) CanGoPrev(current time.Time, bounds *models.ScheduleBounds) bool {
	if bounds == nil {
		return true
	}
	prev := time.Date(current.Year(), current.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	return !prev.Before(bounds.Min)
}

// CanGoNext сообщает, можно ли листать календарь на месяц вперёд.
func (s *AggregatorService) CanGoNext(current time.Time, bounds *models.ScheduleBounds) bool {
	if bounds == nil {
		return true
	}
	next := time.Date(current.Year(), current.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return !next.After(bounds.Max)
}

// HoursForDay возвращает часы выбранного дня, 0 если точки нет.
func (s *AggregatorService) HoursForDay(points []models.SchedulePoint, day string) float64 {
	for _, point := range points {
		if point.Day == day {
			return point.Hours
		}
	}
	return 0
}

// DecodeSchedule разбирает JSON-строку расписания ожидающей активности.
// Нечитаемое расписание превращается в пустой список.
func (s *AggregatorService) DecodeSchedule(raw string) []models.SchedulePoint {
	if raw == "" {
		return []models.SchedulePoint{}
	}
	var points []models.SchedulePoint
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		return []models.SchedulePoint{}
	}
	if points == nil {
		points = []models.SchedulePoint{}
	}
	return points
}

// GanttRow — полоса диаграммы Ганта, сгруппированная по ресурсу.
type GanttRow struct {
	Name     string `json:"name"`
	Resource string `json:"resource"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Color    string `json:"color"`
}

// GanttChart — данные для отрисовки диаграммы Ганта.
type GanttChart struct {
	Resources []string   `json:"resources"`
	Rows      []GanttRow `json:"rows"`
	AxisMin   string     `json:"axisMin,omitempty"`
	AxisMax   string     `json:"axisMax,omitempty"`
}

// GanttChart группирует активности по асигнатурам и размечает полосы
// цветами сессии. Окно оси охватывает все полосы с небольшим запасом.
func (s *AggregatorService) GanttChart(activities []models.Activity) GanttChart {
	chart := GanttChart{
		Resources: []string{},
		Rows:      make([]GanttRow, 0, len(activities)),
	}

	seen := make(map[string]bool)
	var axisMin, axisMax time.Time
	for _, activity := range activities {
		if !seen[activity.SubjectName] {
			seen[activity.SubjectName] = true
			chart.Resources = append(chart.Resources, activity.SubjectName)
		}

		start := parseWhen(activity.Start)
		end := parseWhen(activity.End)
		if !start.IsZero() && (axisMin.IsZero() || start.Before(axisMin)) {
			axisMin = start
		}
		if !end.IsZero() && (axisMax.IsZero() || end.After(axisMax)) {
			axisMax = end
		}

		chart.Rows = append(chart.Rows, GanttRow{
			Name:     activity.Name,
			Resource: activity.SubjectName,
			Start:    activity.Start,
			End:      activity.End,
			Color:    s.colors.Pick(activity.SubjectName),
		})
	}

	if !axisMin.IsZero() {
		chart.AxisMin = axisMin.AddDate(0, 0, -7).Format("2006-01-02")
	}
	if !axisMax.IsZero() {
		chart.AxisMax = axisMax.AddDate(0, 0, 7).Format("2006-01-02")
	}
	return chart
}

// IsHoliday распознаёт праздничный день в обоих вариантах, которые
// встречаются в данных календаря.
func IsHoliday(dayType string) bool {
	upper := strings.ToUpper(dayType)
	return upper == "FESTIVO" || upper == "HOLIDAY"
}

func severityFor(totalHours float64) string {
	switch {
	case totalHours >= highLoadHours:
		return models.SeverityHigh
	case totalHours >= mediumLoadHours:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// decodeCalendarActivities разбирает поле Activities, которое приходит
// JSON-строкой. Пустое или нечитаемое значение считается пустым днём.
func decodeCalendarActivities(raw string) []models.CalendarActivity {
	if raw == "" {
		return []models.CalendarActivity{}
	}
	var activities []models.CalendarActivity
	if err := json.Unmarshal([]byte(raw), &activities); err != nil {
		return []models.CalendarActivity{}
	}
	if activities == nil {
		activities = []models.CalendarActivity{}
	}
	return activities
}

// parseWhen разбирает дату upstream в любом из используемых им форматов.
func parseWhen(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
