package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/gekatateam/loggate/gate"
	"github.com/gekatateam/loggate/relay"
	"github.com/gekatateam/loggate/relay/model"
)

var _ relay.Controller = (*restGateway)(nil)

type restGateway struct {
	addr string
	c    *http.Client
	t    time.Duration
	ctx  context.Context
}

func Rest(addr, path string, timeout time.Duration, tlsConfig *tls.Config) *restGateway {
	return &restGateway{
		addr: fmt.Sprintf("%v/%v", addr, path),
		c: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: tlsConfig,
			},
		},
		t:   timeout,
		ctx: context.Background(),
	}
}

func (g *restGateway) Start(name string, cfg gate.Config) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	res, err := g.do(http.MethodPost, fmt.Sprintf("%v/%v/start", g.addr, name), bytes.NewReader(body))
	if err != nil {
		return err
	}

	defer res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	default:
		return unpackApiError(res)
	}
}

func (g *restGateway) Stop(name string) error {
	res, err := g.do(http.MethodPost, fmt.Sprintf("%v/%v/stop", g.addr, name), nil)
	if err != nil {
		return err
	}

	defer res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	default:
		return unpackApiError(res)
	}
}

func (g *restGateway) State(name string) (gate.State, error) {
	var state gate.State

	res, err := g.do(http.MethodGet, fmt.Sprintf("%v/%v", g.addr, name), nil)
	if err != nil {
		return state, err
	}

	defer res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		rawBody, err := io.ReadAll(res.Body)
		if err != nil {
			return state, err
		}
		return state, json.Unmarshal(rawBody, &state)
	default:
		return state, unpackApiError(res)
	}
}

func (g *restGateway) List() ([]relay.GateInfo, error) {
	var gates = []relay.GateInfo{}

	res, err := g.do(http.MethodGet, fmt.Sprintf("%v/", g.addr), nil)
	if err != nil {
		return gates, err
	}

	defer res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		rawBody, err := io.ReadAll(res.Body)
		if err != nil {
			return gates, err
		}
		return gates, json.Unmarshal(rawBody, &gates)
	default:
		return gates, unpackApiError(res)
	}
}

func (g *restGateway) do(method, url string, body io.Reader) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(g.ctx, g.t)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.c.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}

	res.Body = &cancelBody{ReadCloser: res.Body, cancel: cancel}
	return res, nil
}

// cancelBody releases request context when response body is closed
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}

func unpackApiError(res *http.Response) error {
	rawBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	structBody := &model.ErrResponse{}
	if err := json.Unmarshal(rawBody, structBody); err != nil || len(structBody.Error) == 0 {
		structBody.Error = fmt.Sprintf("unexpected response: %v", res.Status)
	}
	apiErr := errors.New(structBody.Error)

	switch res.StatusCode {
	case http.StatusNotFound:
		return &relay.NotFoundError{Err: apiErr}
	case http.StatusBadRequest:
		return &relay.ValidationError{Err: apiErr}
	case http.StatusInternalServerError:
		return &relay.IOError{Err: apiErr}
	default:
		return apiErr
	}
}
