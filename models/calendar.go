package models

import "time"

// CalendarDay — один день календаря от upstream API.
// Activities приходит JSON-строкой и декодируется агрегатором.
type CalendarDay struct {
	CalendarDate string `json:"CalendarDate"`
	DayType      string `json:"DayType"`
	WeekDay      string `json:"WeekDay"`
	Status       string `json:"Status"`
	Activities   string `json:"Activities"`
}

// CalendarActivity — активность внутри дня календаря.
type CalendarActivity struct {
	Activity     int     `json:"Activity"`
	ActivityName string  `json:"ActivityName"`
	Hours        float64 `json:"Hours"`
	Subject      int     `json:"Subject"`
	SubjectName  string  `json:"SubjectName"`
}

// Состояния ячейки дня в сетке месяца
const (
	DayStateOutside = "outside" // за пределами отображаемого месяца
	DayStateNoData  = "nodata"  // в месяце, но без данных от календаря
	DayStateMatched = "matched"
)

// Нагрузка дня по суммарным часам
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// DayBucket — агрегированное представление одного дня для отрисовки.
type DayBucket struct {
	Date       string             `json:"date"`
	State      string             `json:"state"`
	DayType    string             `json:"dayType,omitempty"`
	WeekDay    string             `json:"weekDay,omitempty"`
	Holiday    bool               `json:"holiday"`
	Severity   string             `json:"severity,omitempty"`
	Activities []CalendarActivity `json:"activities,omitempty"`
	TotalHours float64            `json:"totalHours"`
}

// SchedulePoint — точка расписания ожидающей активности.
type SchedulePoint struct {
	Day     string  `json:"day"`
	Hours   float64 `json:"hours"`
	DayType string  `json:"dayType"`
}

// ScheduleBounds — границы навигации по месяцам календаря.
type ScheduleBounds struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}
