package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	pathMe          = "/api/v1/auth/me"
	pathDevice      = "/api/v1/auth/device"
	pathDeviceToken = "/api/v1/auth/device/token"
	pathKeys        = "/api/v1/keys"
	pathWebhooks    = "/api/v1/webhooks"
	pathOrgs        = "/api/v1/orgs"
)

func invalidID[T any](kind, id string, err error) Result[T] {
	return failure[T](0, fmt.Sprintf("invalid %s ID %q: %v", kind, id, err))
}

// Me returns the identity behind the active credentials, or behind the
// bearer passed with WithBearer.
func (c *Client) Me(ctx context.Context, opts ...RequestOption) Result[Identity] {
	return Do[Identity](ctx, c, http.MethodGet, pathMe, nil, opts...)
}

func (c *Client) RequestDeviceCode(ctx context.Context) Result[DeviceCode] {
	return Do[DeviceCode](ctx, c, http.MethodPost, pathDevice, nil, Anonymous())
}

func (c *Client) PollDeviceToken(ctx context.Context, deviceCode string) Result[DeviceToken] {
	body := map[string]string{"deviceCode": deviceCode}

	return Do[DeviceToken](ctx, c, http.MethodPost, pathDeviceToken, body, Anonymous())
}

func (c *Client) ListKeys(ctx context.Context) Result[KeyList] {
	return Do[KeyList](ctx, c, http.MethodGet, pathKeys, nil)
}

func (c *Client) CreateKey(ctx context.Context, req CreateKeyRequest) Result[CreatedKey] {
	return Do[CreatedKey](ctx, c, http.MethodPost, pathKeys, req)
}

func (c *Client) RevokeKey(ctx context.Context, id string) Result[json.RawMessage] {
	clean, err := SanitizeID(id)
	if err != nil {
		return invalidID[json.RawMessage]("key", id, err)
	}

	return Do[json.RawMessage](ctx, c, http.MethodDelete, pathKeys+"/"+clean, nil)
}

func (c *Client) ListWebhooks(ctx context.Context) Result[WebhookList] {
	return Do[WebhookList](ctx, c, http.MethodGet, pathWebhooks, nil)
}

func (c *Client) CreateWebhook(ctx context.Context, req CreateWebhookRequest) Result[CreatedWebhook] {
	return Do[CreatedWebhook](ctx, c, http.MethodPost, pathWebhooks, req)
}

func (c *Client) DeleteWebhook(ctx context.Context, id string) Result[json.RawMessage] {
	clean, err := SanitizeID(id)
	if err != nil {
		return invalidID[json.RawMessage]("webhook", id, err)
	}

	return Do[json.RawMessage](ctx, c, http.MethodDelete, pathWebhooks+"/"+clean, nil)
}

func (c *Client) TestWebhook(ctx context.Context, id string) Result[WebhookTestResult] {
	clean, err := SanitizeID(id)
	if err != nil {
		return invalidID[WebhookTestResult]("webhook", id, err)
	}

	return Do[WebhookTestResult](ctx, c, http.MethodPost, pathWebhooks+"/"+clean+"/test", nil)
}

func (c *Client) ListOrganizations(ctx context.Context) Result[OrganizationList] {
	return Do[OrganizationList](ctx, c, http.MethodGet, pathOrgs, nil)
}

func (c *Client) GetOrganization(ctx context.Context, id string) Result[Organization] {
	clean, err := SanitizeID(id)
	if err != nil {
		return invalidID[Organization]("organization", id, err)
	}

	return Do[Organization](ctx, c, http.MethodGet, pathOrgs+"/"+clean, nil)
}
