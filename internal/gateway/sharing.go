package gateway

import (
	"context"
	"net/http"

	"NYCU-SDC/survey-builder/internal/survey"
)

func (c *Client) GetShareSettings(ctx context.Context, id survey.ID) (ShareInfo, error) {
	var resp ShareInfo
	err := c.do(ctx, OpGetShareSettings, http.MethodGet, "surveys/"+escape(id)+"/share", nil, nil, &resp)
	return resp, err
}

func (c *Client) UpdateShareSettings(ctx context.Context, id survey.ID, settings Object) (Object, error) {
	var resp Object
	err := c.do(ctx, OpUpdateShareSettings, http.MethodPut, "surveys/"+escape(id)+"/share", nil, settings, &resp)
	return resp, err
}

func (c *Client) GenerateShareLink(ctx context.Context, id survey.ID, settings Object) (Object, error) {
	var resp Object
	err := c.do(ctx, OpGenerateShareLink, http.MethodPost, "surveys/"+escape(id)+"/share-link", nil, nonNil(settings), &resp)
	return resp, err
}

// GenerateQRCode answers with the image url of the survey's QR code.
func (c *Client) GenerateQRCode(ctx context.Context, id survey.ID, settings Object) (Object, error) {
	var resp Object
	err := c.do(ctx, OpGenerateQRCode, http.MethodPost, "surveys/"+escape(id)+"/qr-code", nil, nonNil(settings), &resp)
	return resp, err
}

func nonNil(o Object) Object {
	if o == nil {
		return Object{}
	}
	return o
}
