package gateway

import (
	"bytes"
	"fmt"
	"strconv"

	"NYCU-SDC/survey-builder/internal/survey"
)

// Object is a payload the builder passes through without interpreting.
type Object = map[string]any

type Message struct {
	Message string `json:"message"`
}

type SurveyStatus struct {
	ID     survey.ID     `json:"id"`
	Status survey.Status `json:"status"`
}

// StatusChange is the answer to publish and unpublish.
type StatusChange struct {
	Message string       `json:"message"`
	Survey  SurveyStatus `json:"survey"`
}

// Count decodes aggregate columns that arrive either as numbers or numeric strings.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("gateway: invalid count %s: %w", string(data), err)
	}
	*c = Count(n)
	return nil
}

// SurveySummary is one row of a survey listing.
type SurveySummary struct {
	ID             survey.ID         `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         survey.Status     `json:"status"`
	OwnerID        survey.ID         `json:"user_id"`
	AuthorName     string            `json:"author_name,omitempty"`
	QuestionCount  Count             `json:"question_count"`
	ResponsesCount Count             `json:"responses_count"`
	CreatedAt      *survey.Timestamp `json:"created_at,omitempty"`
	UpdatedAt      *survey.Timestamp `json:"updated_at,omitempty"`
}

type Version struct {
	ID            survey.ID         `json:"id"`
	SurveyID      survey.ID         `json:"survey_id"`
	VersionNumber Count             `json:"version_number"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Theme         string            `json:"theme"`
	CreatedBy     survey.ID         `json:"created_by"`
	CreatedAt     *survey.Timestamp `json:"created_at,omitempty"`
}

type ShareInfo struct {
	SurveyID    survey.ID `json:"surveyId"`
	SurveyTitle string    `json:"surveyTitle"`
	ShareURL    string    `json:"shareUrl"`
	ShortURL    string    `json:"shortUrl"`
	QRCodeData  string    `json:"qrCodeData"`
}

type bulkRequest struct {
	SurveyIDs []survey.ID `json:"surveyIds"`
}

type reorderRequest struct {
	QuestionIDs []survey.ID `json:"questionIds"`
}

// questionPayload adds the parent survey id the storage service expects in question bodies.
type questionPayload struct {
	survey.Question
	SurveyID   survey.ID `json:"surveyId"`
	OrderIndex int       `json:"orderIndex"`
}
