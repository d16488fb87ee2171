package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout renders as YYYY-MM-DD HH:MM:SS, so lexicographic order of
// timestamps matches chronological order.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	ErrAuthentication = errors.New("spreadsheet authentication failed")
	ErrRemoteService  = errors.New("spreadsheet service unavailable")
)

// ValidationError reports the required fields that were blank on submission.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// SignupRequest is the visitor input from the register form or the JSON API.
type SignupRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// SignupRecord is the row appended to the signup sheet. It is built once
// validation has passed and is never modified afterwards.
type SignupRecord struct {
	Timestamp string `json:"timestamp"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

func NewSignupRecord(submittedAt time.Time, name, email, message string) *SignupRecord {
	return &SignupRecord{
		Timestamp: submittedAt.Local().Format(TimestampLayout),
		Name:      name,
		Email:     email,
		Message:   message,
	}
}

// Row returns the record in sheet column order: timestamp, name, email, message.
func (r *SignupRecord) Row() []interface{} {
	return []interface{}{r.Timestamp, r.Name, r.Email, r.Message}
}
