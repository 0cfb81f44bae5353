package gateway

import (
	"context"
	"net/http"
	"net/url"

	"NYCU-SDC/survey-builder/internal/survey"
)

func (c *Client) GetAnalytics(ctx context.Context, id survey.ID, params url.Values) (Object, error) {
	var resp Object
	err := c.do(ctx, OpGetAnalytics, http.MethodGet, "surveys/"+escape(id)+"/analytics", params, nil, &resp)
	return resp, err
}

func (c *Client) GetResponseStats(ctx context.Context, id survey.ID) (Object, error) {
	var resp Object
	err := c.do(ctx, OpGetResponseStats, http.MethodGet, "surveys/"+escape(id)+"/stats", nil, nil, &resp)
	return resp, err
}

func (c *Client) GetCompletionRate(ctx context.Context, id survey.ID) (Object, error) {
	var resp Object
	err := c.do(ctx, OpGetCompletionRate, http.MethodGet, "surveys/"+escape(id)+"/completion-rate", nil, nil, &resp)
	return resp, err
}

func (c *Client) GetResponseTimeline(ctx context.Context, id survey.ID, params url.Values) (Object, error) {
	var resp Object
	err := c.do(ctx, OpGetResponseTimeline, http.MethodGet, "surveys/"+escape(id)+"/timeline", params, nil, &resp)
	return resp, err
}

func (c *Client) GetDeviceStats(ctx context.Context, id survey.ID) (Object, error) {
	var resp Object
	err := c.do(ctx, OpGetDeviceStats, http.MethodGet, "surveys/"+escape(id)+"/device-stats", nil, nil, &resp)
	return resp, err
}

func (c *Client) GetLocationStats(ctx context.Context, id survey.ID) (Object, error) {
	var resp Object
	err := c.do(ctx, OpGetLocationStats, http.MethodGet, "surveys/"+escape(id)+"/location-stats", nil, nil, &resp)
	return resp, err
}

// ExportResponses downloads the responses, "csv" unless format says otherwise.
func (c *Client) ExportResponses(ctx context.Context, id survey.ID, format string, params url.Values) (Blob, error) {
	return c.export(ctx, OpExportResponses, "surveys/"+escape(id)+"/export", format, "csv", params)
}

// ExportAnalytics downloads the analytics report, "pdf" unless format says otherwise.
func (c *Client) ExportAnalytics(ctx context.Context, id survey.ID, format string, params url.Values) (Blob, error) {
	return c.export(ctx, OpExportAnalytics, "surveys/"+escape(id)+"/export-analytics", format, "pdf", params)
}

func (c *Client) export(ctx context.Context, op, path, format, defaultFormat string, params url.Values) (Blob, error) {
	if format == "" {
		format = defaultFormat
	}
	query := cloneValues(params)
	query.Set("format", format)

	var blob Blob
	err := c.do(ctx, op, http.MethodGet, path, query, nil, &blob)
	return blob, err
}
