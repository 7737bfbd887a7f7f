package api

import (
	"context"
	"encoding/json"
	"net/http"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// GraphQL posts a query to the GraphQL endpoint. A non-empty errors array
// fails the result even on HTTP 200; Data then holds the whole payload.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]any) Result[json.RawMessage] {
	authz, msg := c.authorization()
	if msg != "" {
		return unauthenticated[json.RawMessage](msg)
	}

	res := send[graphQLResponse](ctx, c, http.MethodPost, c.graphqlURL, graphQLRequest{
		Query:     query,
		Variables: variables,
	}, authz)

	out := Result[json.RawMessage]{
		Status: res.Status,
		Error:  res.Error,
		Raw:    res.Raw,
		Detail: res.Detail,

		RetryAfter: res.RetryAfter,
	}

	if res.Data != nil && len(res.Data.Errors) > 0 {
		out.Error = res.Data.Errors[0].Message
		if out.Error == "" {
			out.Error = "GraphQL error"
		}

		payload := res.Raw
		out.Data = &payload

		return out
	}

	if !res.OK {
		if res.Raw != nil {
			payload := res.Raw
			out.Data = &payload
		}

		return out
	}

	if res.Data == nil {
		out.Error = "invalid GraphQL response"

		return out
	}

	data := res.Data.Data
	out.OK = true
	out.Data = &data

	return out
}
