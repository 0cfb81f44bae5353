package gateway

import (
	"context"
	"net/http"

	"NYCU-SDC/survey-builder/internal/survey"
)

func (c *Client) AddQuestion(ctx context.Context, surveyID survey.ID, q survey.Question) (survey.Question, error) {
	var resp survey.Question
	body := questionPayload{Question: q, SurveyID: surveyID, OrderIndex: q.Order}
	err := c.do(ctx, OpAddQuestion, http.MethodPost, "surveys/"+escape(surveyID)+"/questions", nil, body, &resp)
	return resp, err
}

func (c *Client) UpdateQuestion(ctx context.Context, surveyID survey.ID, q survey.Question) (survey.Question, error) {
	var resp survey.Question
	body := questionPayload{Question: q, SurveyID: surveyID, OrderIndex: q.Order}
	err := c.do(ctx, OpUpdateQuestion, http.MethodPut, "surveys/"+escape(surveyID)+"/questions/"+escape(q.ID), nil, body, &resp)
	return resp, err
}

func (c *Client) DeleteQuestion(ctx context.Context, surveyID, questionID survey.ID) (Message, error) {
	var resp Message
	err := c.do(ctx, OpDeleteQuestion, http.MethodDelete, "surveys/"+escape(surveyID)+"/questions/"+escape(questionID), nil, nil, &resp)
	return resp, err
}

func (c *Client) ReorderQuestions(ctx context.Context, surveyID survey.ID, questionIDs []survey.ID) (Message, error) {
	var resp Message
	err := c.do(ctx, OpReorderQuestions, http.MethodPut, "surveys/"+escape(surveyID)+"/questions/reorder", nil, reorderRequest{QuestionIDs: questionIDs}, &resp)
	return resp, err
}
