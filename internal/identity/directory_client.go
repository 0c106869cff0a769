package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrAccountExists menandakan kondisi "username sudah terdaftar" dari
// identity provider. Dibedakan dari error lain karena dianggap sukses non-fatal.
var ErrAccountExists = errors.New("directory account already exists")

const DeliveryMediumEmail = "EMAIL"

type AccountRequest struct {
	Username            string            `json:"username"`
	Attributes          map[string]string `json:"attributes"`
	TemporaryCredential string            `json:"temporary_credential"`
	DeliveryMedium      string            `json:"delivery_medium"`
}

type GroupMemberRequest struct {
	Username string `json:"username"`
}

type DirectoryClient interface {
	CreateAccount(ctx context.Context, poolID string, req AccountRequest) error
	AddToGroup(ctx context.Context, poolID, username, group string) error
}

type httpDirectoryClient struct {
	baseURL string
	client  *http.Client
}

func NewDirectoryClient(baseURL string) DirectoryClient {
	return &httpDirectoryClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *httpDirectoryClient) CreateAccount(ctx context.Context, poolID string, req AccountRequest) error {
	url := fmt.Sprintf("%s/pools/%s/accounts", c.baseURL, poolID)
	status, body, err := c.post(ctx, url, req)
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusConflict:
		return ErrAccountExists
	case status >= http.StatusBadRequest:
		return fmt.Errorf("directory create account failed (%d): %s", status, body)
	}
	return nil
}

func (c *httpDirectoryClient) AddToGroup(ctx context.Context, poolID, username, group string) error {
	url := fmt.Sprintf("%s/pools/%s/groups/%s/members", c.baseURL, poolID, group)
	status, body, err := c.post(ctx, url, GroupMemberRequest{Username: username})
	if err != nil {
		return err
	}

	if status >= http.StatusBadRequest {
		return fmt.Errorf("directory add to group failed (%d): %s", status, body)
	}
	return nil
}

func (c *httpDirectoryClient) post(ctx context.Context, url string, payload any) (int, string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return 0, "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, string(body), nil
}
