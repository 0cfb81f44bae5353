package gateway

import (
	"context"
	"net/http"
	"net/url"

	"NYCU-SDC/survey-builder/internal/survey"
)

func (c *Client) ListSurveys(ctx context.Context, filter url.Values) ([]SurveySummary, error) {
	var resp []SurveySummary
	err := c.do(ctx, OpListSurveys, http.MethodGet, "surveys", filter, nil, &resp)
	return resp, err
}

func (c *Client) ListDeletedSurveys(ctx context.Context) ([]SurveySummary, error) {
	var resp []SurveySummary
	err := c.do(ctx, OpListDeletedSurveys, http.MethodGet, "surveys/deleted", nil, nil, &resp)
	return resp, err
}

func (c *Client) SearchSurveys(ctx context.Context, query string, filter url.Values) ([]SurveySummary, error) {
	params := cloneValues(filter)
	params.Set("q", query)

	var resp []SurveySummary
	err := c.do(ctx, OpSearchSurveys, http.MethodGet, "surveys/search", params, nil, &resp)
	return resp, err
}

func (c *Client) GetSurvey(ctx context.Context, id survey.ID) (survey.Survey, error) {
	var resp survey.Survey
	err := c.do(ctx, OpGetSurvey, http.MethodGet, "surveys/"+escape(id), nil, nil, &resp)
	return resp, err
}

// CreateSurvey sends the survey without its id.
func (c *Client) CreateSurvey(ctx context.Context, s survey.Survey) (survey.Survey, error) {
	s.ID = ""
	var resp survey.Survey
	err := c.do(ctx, OpCreateSurvey, http.MethodPost, "surveys", nil, s, &resp)
	return resp, err
}

func (c *Client) UpdateSurvey(ctx context.Context, id survey.ID, s survey.Survey) (survey.Survey, error) {
	var resp survey.Survey
	err := c.do(ctx, OpUpdateSurvey, http.MethodPut, "surveys/"+escape(id), nil, s, &resp)
	return resp, err
}

// SaveSurvey updates surveys that have an id and creates the rest.
func (c *Client) SaveSurvey(ctx context.Context, s survey.Survey) (survey.Survey, error) {
	if s.IsPersisted() {
		return c.UpdateSurvey(ctx, s.ID, s)
	}
	return c.CreateSurvey(ctx, s)
}

func (c *Client) DeleteSurvey(ctx context.Context, id survey.ID) (Message, error) {
	var resp Message
	err := c.do(ctx, OpDeleteSurvey, http.MethodDelete, "surveys/"+escape(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) RestoreSurvey(ctx context.Context, id survey.ID) (Message, error) {
	var resp Message
	err := c.do(ctx, OpRestoreSurvey, http.MethodPost, "surveys/"+escape(id)+"/restore", nil, nil, &resp)
	return resp, err
}

func (c *Client) DeleteSurveyPermanently(ctx context.Context, id survey.ID) (Message, error) {
	var resp Message
	err := c.do(ctx, OpDeleteSurveyPermanently, http.MethodDelete, "surveys/"+escape(id)+"/permanent", nil, nil, &resp)
	return resp, err
}

func (c *Client) ListVersions(ctx context.Context, id survey.ID) ([]Version, error) {
	var resp []Version
	err := c.do(ctx, OpListVersions, http.MethodGet, "surveys/"+escape(id)+"/versions", nil, nil, &resp)
	return resp, err
}

func (c *Client) RestoreVersion(ctx context.Context, id survey.ID, version int) (Message, error) {
	var resp Message
	err := c.do(ctx, OpRestoreVersion, http.MethodPost, "surveys/"+escape(id)+"/restore-version/"+escape(version), nil, nil, &resp)
	return resp, err
}

func (c *Client) PublishSurvey(ctx context.Context, id survey.ID) (StatusChange, error) {
	var resp StatusChange
	err := c.do(ctx, OpPublishSurvey, http.MethodPost, "surveys/"+escape(id)+"/publish", nil, nil, &resp)
	return resp, err
}

func (c *Client) UnpublishSurvey(ctx context.Context, id survey.ID) (StatusChange, error) {
	var resp StatusChange
	err := c.do(ctx, OpUnpublishSurvey, http.MethodPost, "surveys/"+escape(id)+"/unpublish", nil, nil, &resp)
	return resp, err
}

func (c *Client) DuplicateSurvey(ctx context.Context, id survey.ID) (survey.Survey, error) {
	var resp survey.Survey
	err := c.do(ctx, OpDuplicateSurvey, http.MethodPost, "surveys/"+escape(id)+"/duplicate", nil, nil, &resp)
	return resp, err
}

func (c *Client) BulkDeleteSurveys(ctx context.Context, ids []survey.ID) (Object, error) {
	var resp Object
	err := c.do(ctx, OpBulkDeleteSurveys, http.MethodPost, "surveys/bulk-delete", nil, bulkRequest{SurveyIDs: ids}, &resp)
	return resp, err
}

func (c *Client) BulkPublishSurveys(ctx context.Context, ids []survey.ID) (Object, error) {
	var resp Object
	err := c.do(ctx, OpBulkPublishSurveys, http.MethodPost, "surveys/bulk-publish", nil, bulkRequest{SurveyIDs: ids}, &resp)
	return resp, err
}

func (c *Client) BulkUnpublishSurveys(ctx context.Context, ids []survey.ID) (Object, error) {
	var resp Object
	err := c.do(ctx, OpBulkUnpublishSurveys, http.MethodPost, "surveys/bulk-unpublish", nil, bulkRequest{SurveyIDs: ids}, &resp)
	return resp, err
}

func cloneValues(values url.Values) url.Values {
	result := url.Values{}
	for key, v := range values {
		result[key] = append([]string(nil), v...)
	}
	return result
}
