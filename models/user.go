package models

type SubjectRef struct {
	SubjectID   int    `json:"SubjectID"`
	SubjectName string `json:"SubjectName"`
}

// UserProfile — данные пользователя вместе со списком его асигнатур.
// RelatedSubjects == nil означает, что поле отсутствовало в сохранённом JSON.
type UserProfile struct {
	ID              int          `json:"Id"`
	Username        string       `json:"Username"`
	Password        string       `json:"Password"`
	Type            string       `json:"Type"`
	RelatedSubjects []SubjectRef `json:"relatedSubjectsList"`
}
