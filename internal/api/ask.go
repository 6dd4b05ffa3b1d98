package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/models"
)

// Asker sends one question and returns its answer
type Asker interface {
	Ask(ctx context.Context, question string) (*models.Answer, error)
}

var _ Asker = (*Client)(nil)

// Ask posts {"question": question} to the ask endpoint.
//
// The HTTP status does not decide the outcome: any JSON body with a string
// "answer" is a success. A body that is not JSON is a delivery failure, and
// JSON without an answer is a malformed response. Canceling ctx returns
// context.Canceled.
func (c *Client) Ask(ctx context.Context, question string) (*models.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apierrors.ErrEmptyQuestion
	}
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.Endpoint()

	payload, err := json.Marshal(models.AskRequest{Question: question})
	if err != nil {
		return nil, apierrors.NewDeliveryError("encode request", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apierrors.NewDeliveryError("create request", endpoint, err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("question_len", len(question)).
		Msg("sending question")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		return nil, apierrors.NewDeliveryError("send request", endpoint, err)
	}
	if resp == nil {
		return nil, apierrors.NewDeliveryError("send request", endpoint, fmt.Errorf("no response"))
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	var body []byte
	if resp.Body != nil {
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, ctx.Err()
			}
			return nil, apierrors.NewDeliveryErrorWithStatus("read response", endpoint, resp.StatusCode, err)
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int("body_len", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("received response")

	return parseAnswer(body, resp.StatusCode, endpoint)
}

// parseAnswer turns a response body into an Answer or a typed error
func parseAnswer(body []byte, status int, endpoint string) (*models.Answer, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewDeliveryErrorWithStatus("decode response", endpoint, status,
			fmt.Errorf("response is not valid JSON"))
	}

	answer := gjson.GetBytes(body, PathAnswer)
	if answer.Type != gjson.String {
		excerpt := string(body)
		if len(excerpt) > maxErrorBodyBytes {
			excerpt = excerpt[:maxErrorBodyBytes]
		}
		serverMsg := gjson.GetBytes(body, PathError).String()
		return nil, apierrors.NewMalformedResponseError(status, endpoint, serverMsg, excerpt)
	}

	return &models.Answer{
		Text:       answer.String(),
		Question:   gjson.GetBytes(body, PathQuestion).String(),
		Context:    gjson.GetBytes(body, PathContext).String(),
		StatusCode: status,
	}, nil
}
