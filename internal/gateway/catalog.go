package gateway

import (
	"context"
	"net/http"

	"NYCU-SDC/survey-builder/internal/survey"
)

func (c *Client) ValidateSurvey(ctx context.Context, s survey.Survey) (Object, error) {
	var resp Object
	err := c.do(ctx, OpValidateSurvey, http.MethodPost, "surveys/validate", nil, s, &resp)
	return resp, err
}

func (c *Client) ValidateQuestion(ctx context.Context, q survey.Question) (Object, error) {
	var resp Object
	err := c.do(ctx, OpValidateQuestion, http.MethodPost, "questions/validate", nil, q, &resp)
	return resp, err
}

func (c *Client) GetQuestionTypes(ctx context.Context) ([]Object, error) {
	var resp []Object
	err := c.do(ctx, OpGetQuestionTypes, http.MethodGet, "question-types", nil, nil, &resp)
	return resp, err
}

func (c *Client) GetEmojiScales(ctx context.Context) ([]Object, error) {
	var resp []Object
	err := c.do(ctx, OpGetEmojiScales, http.MethodGet, "emoji-scales", nil, nil, &resp)
	return resp, err
}

func (c *Client) GetSurveyThemes(ctx context.Context) ([]Object, error) {
	var resp []Object
	err := c.do(ctx, OpGetSurveyThemes, http.MethodGet, "survey-themes", nil, nil, &resp)
	return resp, err
}
