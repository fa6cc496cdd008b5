package models

// Типы активностей, которые присылает организатор
const (
	ActivityTypeExam     = "Exam"
	ActivityTypeActivity = "Activity"
	ActivityTypeLab      = "Lab"
	ActivityTypeClass    = "Class"
	ActivityTypeOther    = "Other"
)

// Стратегии планирования активности
const (
	StrategyAggressive = "Aggressive"
	StrategyCalm       = "Calm"
	StrategyComplete   = "Complete"
)

// Activity — активность так, как её отдаёт upstream API.
// Даты приходят строками и разбираются только там, где это нужно.
type Activity struct {
	ID             int     `json:"ActivityID"`
	Name           string  `json:"ActivityName"`
	Description    string  `json:"Description"`
	Type           string  `json:"ActivityType"`
	SubjectID      int     `json:"SubjectID"`
	SubjectName    string  `json:"SubjectName"`
	Start          string  `json:"StartOfActivity"`
	End            string  `json:"EndOfActivity"`
	EstimatedHours float64 `json:"EstimatedHours"`
	Strategy       string  `json:"Strategy"`
	Status         string  `json:"Status"`
}

// PendingActivity — активность, ожидающая подтверждения координатором.
// ScheduleJSON приходит JSON-строкой со списком точек расписания.
type PendingActivity struct {
	ID           int    `json:"ActivityID"`
	Name         string `json:"ActivityName"`
	SubjectID    int    `json:"SubjectID"`
	SubjectName  string `json:"SubjectName"`
	Start        string `json:"StartOfActivity"`
	End          string `json:"EndOfActivity"`
	NewEnd       string `json:"NewEndOfActivity"`
	ScheduleJSON string `json:"ScheduleJSON"`
}
