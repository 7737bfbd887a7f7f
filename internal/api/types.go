package api

import "golang.org/x/oauth2"

// User is the account behind a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
	Role string `json:"role,omitempty"`
	Plan string `json:"plan,omitempty"`
}

type OrganizationList struct {
	Organizations []Organization `json:"organizations"`
}

// Identity is returned by the auth/me endpoint.
type Identity struct {
	User         User          `json:"user"`
	Organization *Organization `json:"organization,omitempty"`
	Environment  string        `json:"environment,omitempty"`
}

// DeviceCode starts a device authorization exchange.
type DeviceCode struct {
	DeviceCode      string `json:"deviceCode"`
	UserCode        string `json:"userCode"`
	VerificationURI string `json:"verificationUri"`
	ExpiresIn       int    `json:"expiresIn"`
	Interval        int    `json:"interval"`
}

// DeviceToken is a poll response. Pending and failed polls only carry Error.
type DeviceToken struct {
	AccessToken      string         `json:"accessToken,omitempty"`
	RefreshToken     string         `json:"refreshToken,omitempty"`
	ExpiresIn        int            `json:"expiresIn,omitempty"`
	User             User           `json:"user"`
	Organizations    []Organization `json:"organizations,omitempty"`
	Error            string         `json:"error,omitempty"`
	ErrorDescription string         `json:"errorDescription,omitempty"`
}

// Token returns the grant as an oauth2 token.
func (t DeviceToken) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "Bearer",
	}
}

type APIKey struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	KeyPrefix   string  `json:"keyPrefix"`
	Environment string  `json:"environment"`
	Type        string  `json:"type"`
	LastUsedAt  *string `json:"lastUsedAt"`
	CreatedAt   string  `json:"createdAt"`
}

type KeyList struct {
	Keys []APIKey `json:"keys"`
}

type CreateKeyRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Environment string `json:"environment"`
}

// CreatedKey carries the full secret, which the server never returns again.
type CreatedKey struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	KeyPrefix   string `json:"keyPrefix"`
	Name        string `json:"name"`
	Environment string `json:"environment"`
}

type Webhook struct {
	ID              string   `json:"id"`
	URL             string   `json:"url"`
	Description     string   `json:"description,omitempty"`
	Events          []string `json:"events"`
	ChainID         string   `json:"chainId"`
	IsActive        bool     `json:"isActive"`
	DeliveryCount   int      `json:"deliveryCount"`
	FailureCount    int      `json:"failureCount"`
	LastTriggeredAt *string  `json:"lastTriggeredAt"`
	CreatedAt       string   `json:"createdAt"`
}

type WebhookList struct {
	Webhooks []Webhook `json:"webhooks"`
}

type CreateWebhookRequest struct {
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	ChainID     string   `json:"chainId"`
	Events      []string `json:"events"`
}

type CreatedWebhook struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Secret string   `json:"secret"`
	Events []string `json:"events"`
}

type WebhookTestResult struct {
	Success      bool    `json:"success"`
	ResponseCode *int    `json:"responseCode"`
	ResponseTime *int    `json:"responseTime"`
	ErrorMessage *string `json:"errorMessage"`
}
