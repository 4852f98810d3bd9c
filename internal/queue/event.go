// Package queue defines message payloads exchanged over the message broker
// and the background consumer that mirrors freshly recorded responses to the
// export spreadsheet.
package queue

// ResponseRecordedEvent is published after every successful answer
// submission.  It identifies the response by its natural key so the consumer
// can re-read the joined row from the database before exporting; payload
// staleness is therefore impossible.
type ResponseRecordedEvent struct {
	UserID     uint64 `json:"user_id"`
	QuestionID uint64 `json:"question_id"`
	SurveyID   uint64 `json:"survey_id"`
	RecordedAt string `json:"recorded_at"`
}
