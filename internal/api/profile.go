package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/existflow/teamplan/internal/model"
)

// MyInfo fetches the signed-in user's profile summary
func (c *Client) MyInfo(ctx context.Context) (*model.MyInfo, error) {
	var info model.MyInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/profile/my-info", nil, &info, true); err != nil {
		return nil, err
	}
	return &info, nil
}

// SystemInfo fetches build and environment details
func (c *Client) SystemInfo(ctx context.Context) (*model.SystemInfo, error) {
	var info model.SystemInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/profile/system-info", nil, &info, true); err != nil {
		return nil, err
	}
	return &info, nil
}

// People fetches the account's people. The endpoint answers either
// {"people": [...]} or a bare array; both are accepted.
func (c *Client) People(ctx context.Context) ([]model.Person, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v1/people", nil, &raw, true); err != nil {
		return nil, err
	}
	return decodePeople(raw)
}

func decodePeople(raw json.RawMessage) ([]model.Person, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var people []model.Person
		if err := json.Unmarshal(trimmed, &people); err != nil {
			return nil, fmt.Errorf("failed to decode people: %w", err)
		}
		return people, nil
	}
	var wrapped struct {
		People []model.Person `json:"people"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode people: %w", err)
	}
	return wrapped.People, nil
}

// TeamWeek fetches the team's plans for the current week
func (c *Client) TeamWeek(ctx context.Context) (*model.TeamWeek, error) {
	var week model.TeamWeek
	if err := c.do(ctx, http.MethodGet, "/api/v1/team/week", nil, &week, true); err != nil {
		return nil, err
	}
	return &week, nil
}
