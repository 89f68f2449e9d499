package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

// HTTPClient выполняет запросы к серверу игры.
// Каждый вызов сразу возвращает Handle, сам запрос идет в горутине.
type HTTPClient struct {
	base     string
	login    string
	password string
	timeout  time.Duration
	agent    string
	hc       *client.Client
}

// NewHTTPClient создает клиента. Пустой login - анонимные запросы (создание аккаунта).
func NewHTTPClient(base, login, password string, timeout time.Duration) (*HTTPClient, error) {
	hc, err := client.NewClient(
		client.WithDialTimeout(timeout),
		client.WithClientReadTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	return &HTTPClient{
		base:     strings.TrimRight(base, "/"),
		login:    login,
		password: password,
		timeout:  timeout,
		hc:       hc,
	}, nil
}

// WithCredentials возвращает копию клиента с другими учетными данными.
func (c *HTTPClient) WithCredentials(login, password string) *HTTPClient {
	cp := *c
	cp.login, cp.password = login, password
	return &cp
}

// WithUserAgent задает заголовок User-Agent.
func (c *HTTPClient) WithUserAgent(agent string) *HTTPClient {
	cp := *c
	cp.agent = agent
	return &cp
}

func (c *HTTPClient) Base() string     { return c.base }
func (c *HTTPClient) Login() string    { return c.login }
func (c *HTTPClient) Password() string { return c.password }

// Anonymous - без учетных данных.
func (c *HTTPClient) Anonymous() bool {
	return c.login == ""
}

// URL собирает абсолютный адрес. Абсолютные ссылки сервера проходят как есть.
func (c *HTTPClient) URL(path string, query url.Values) string {
	u := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		u = c.base + path
	}
	if len(query) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + query.Encode()
}

// Get запускает GET.
func (c *HTTPClient) Get(path string, query url.Values) *Handle {
	return c.do(consts.MethodGet, c.URL(path, query), nil)
}

// Post запускает POST. body == nil - без тела, иначе JSON.
func (c *HTTPClient) Post(path string, query url.Values, body any) *Handle {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return Resolved(Result{Err: fmt.Errorf("encode request body: %w", err)})
		}
	}
	return c.do(consts.MethodPost, c.URL(path, query), raw)
}

func (c *HTTPClient) do(method, uri string, body []byte) *Handle {
	h := NewHandle()
	log := logger.Log.WithFields(logrus.Fields{
		"method":     method,
		"url":        uri,
		"request_id": h.ID(),
	})
	log.Info("HTTP request")

	go func() {
		req := protocol.AcquireRequest()
		resp := protocol.AcquireResponse()
		defer func() {
			protocol.ReleaseRequest(req)
			protocol.ReleaseResponse(resp)
		}()

		req.SetMethod(method)
		req.SetRequestURI(uri)
		req.Header.Set("X-Request-Id", h.ID())
		if c.agent != "" {
			req.Header.Set("User-Agent", c.agent)
		}
		if c.login != "" {
			req.Header.Set("Authorization", basicAuth(c.login, c.password))
		}
		if body != nil {
			req.Header.SetContentTypeBytes([]byte("application/json"))
			req.SetBody(body)
		}

		if err := c.hc.DoTimeout(context.Background(), req, resp, c.timeout); err != nil {
			log.WithError(err).Warn("HTTP request failed")
			h.Resolve(Result{Err: networkError(err)})
			return
		}

		status := resp.StatusCode()
		// Тело принадлежит resp до Release, копируем.
		payload := append([]byte(nil), resp.Body()...)
		log.WithField("status", status).Debug("HTTP response")

		if status < 200 || status >= 300 {
			h.Resolve(Result{Status: status, Body: payload, Err: statusError(status, payload)})
			return
		}
		h.Resolve(Result{Status: status, Body: payload})
	}()
	return h
}

func basicAuth(login, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(login+":"+password))
}
