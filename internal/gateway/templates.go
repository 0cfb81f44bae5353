package gateway

import (
	"context"
	"net/http"
	"net/url"

	"NYCU-SDC/survey-builder/internal/survey"
)

// Remote templates are stored by the storage service and kept as opaque objects,
// the builder's own catalog lives in the template package.

func (c *Client) ListTemplates(ctx context.Context, params url.Values) ([]Object, error) {
	var resp []Object
	err := c.do(ctx, OpListTemplates, http.MethodGet, "templates", params, nil, &resp)
	return resp, err
}

func (c *Client) SearchTemplates(ctx context.Context, query string, params url.Values) ([]Object, error) {
	values := cloneValues(params)
	values.Set("q", query)

	var resp []Object
	err := c.do(ctx, OpSearchTemplates, http.MethodGet, "templates/search", values, nil, &resp)
	return resp, err
}

func (c *Client) GetTemplate(ctx context.Context, id string) (Object, error) {
	var resp Object
	err := c.do(ctx, OpGetTemplate, http.MethodGet, "templates/"+escape(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) CreateTemplate(ctx context.Context, data Object) (Object, error) {
	var resp Object
	err := c.do(ctx, OpCreateTemplate, http.MethodPost, "templates", nil, data, &resp)
	return resp, err
}

func (c *Client) UpdateTemplate(ctx context.Context, id string, data Object) (Object, error) {
	var resp Object
	err := c.do(ctx, OpUpdateTemplate, http.MethodPut, "templates/"+escape(id), nil, data, &resp)
	return resp, err
}

func (c *Client) DeleteTemplate(ctx context.Context, id string) (Message, error) {
	var resp Message
	err := c.do(ctx, OpDeleteTemplate, http.MethodDelete, "templates/"+escape(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) SaveAsTemplate(ctx context.Context, surveyID survey.ID, data Object) (Object, error) {
	var resp Object
	err := c.do(ctx, OpSaveAsTemplate, http.MethodPost, "surveys/"+escape(surveyID)+"/save-as-template", nil, data, &resp)
	return resp, err
}
