package assetregistry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"net/url"
	"time"
)

type client struct {
	baseUri  string
	http     *retryablehttp.Client
	commands *retryablehttp.Client
}

// NewClient talks to a remote asset registry over HTTP. Queries are retried
// by the underlying client; Transfer is a command and goes through a client
// with retries disabled so a rejection is reported once, never replayed.
func NewClient(baseUri string, timeout, retryMax int) Registry {
	queries := retryablehttp.NewClient()
	queries.RetryMax = retryMax
	queries.HTTPClient.Timeout = time.Duration(timeout) * time.Second
	queries.Logger = nil

	commands := retryablehttp.NewClient()
	commands.RetryMax = 0
	commands.HTTPClient.Timeout = time.Duration(timeout) * time.Second
	commands.Logger = nil

	return client{baseUri: baseUri, http: queries, commands: commands}
}

func (c client) HolderOf(contract string, tokenId uint64) (string, error) {
	resp, err := c.http.Get(fmt.Sprintf("%s/assets/%s/%d/holder", c.baseUri, contract, tokenId))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return "", ErrAssetNotFound
	}
	if resp.StatusCode != 200 {
		return "", errors.New(resp.Status)
	}

	var body struct {
		Holder string `json:"holder"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	return body.Holder, nil
}

func (c client) IsApproved(holder, operator, contract string, tokenId uint64) (bool, error) {
	uri := fmt.Sprintf("%s/assets/%s/%d/approved?holder=%s&operator=%s",
		c.baseUri, contract, tokenId, url.QueryEscape(holder), url.QueryEscape(operator))

	resp, err := c.http.Get(uri)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return false, errors.New(resp.Status)
	}

	var body struct {
		Approved bool `json:"approved"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}

	return body.Approved, nil
}

func (c client) Transfer(contract string, tokenId uint64, from, to string) error {
	payload, err := json.Marshal(map[string]string{"from": from, "to": to})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequest("POST", fmt.Sprintf("%s/assets/%s/%d/transfer", c.baseUri, contract, tokenId), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.commands.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return ErrNotAuthorized
	}

	return nil
}
