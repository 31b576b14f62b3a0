package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"topup/kit/observability"
)

const maxResponseBytes = 1 << 20

type HTTPClient struct {
	cfg    Config
	http   *http.Client
	now    func() time.Time
	logger *observability.Logger
}

func NewHTTPClient(cfg Config, logger *observability.Logger) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Product == "" {
		cfg.Product = DefaultConfig().Product
	}
	if cfg.RoleProductID == "" {
		cfg.RoleProductID = DefaultConfig().RoleProductID
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
		logger: logger,
	}
}

type apiResponse struct {
	Status      json.Number     `json:"status"`
	Message     string          `json:"message"`
	OrderID     any             `json:"order_id"`
	Username    string          `json:"username"`
	SmilePoints decimal.Decimal `json:"smile_points"`
}

func (c *HTTPClient) CreateOrder(ctx context.Context, recipientID, zone, skuID string) (string, error) {
	res, err := c.call(ctx, OpCreateOrder, map[string]string{
		"userid":    recipientID,
		"zoneid":    zone,
		"productid": skuID,
	})
	if err != nil {
		return "", err
	}
	orderID := ""
	if res.OrderID != nil {
		orderID = fmt.Sprint(res.OrderID)
	}
	if orderID == "" {
		return "", rejected(OpCreateOrder, "missing order id")
	}
	return orderID, nil
}

func (c *HTTPClient) LookupRole(ctx context.Context, recipientID, zone string) (Role, error) {
	res, err := c.call(ctx, OpLookupRole, map[string]string{
		"userid":    recipientID,
		"zoneid":    zone,
		"productid": c.cfg.RoleProductID,
	})
	if err != nil {
		return Role{}, err
	}
	name := res.Username
	if name == "" {
		name = "N/A"
	}
	return Role{RecipientID: recipientID, Zone: zone, DisplayName: name}, nil
}

func (c *HTTPClient) QueryPoints(ctx context.Context) (decimal.Decimal, error) {
	res, err := c.call(ctx, OpQueryPoints, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return res.SmilePoints, nil
}

func (c *HTTPClient) call(ctx context.Context, op string, extra map[string]string) (*apiResponse, error) {
	params := map[string]string{
		"uid":     c.cfg.UID,
		"email":   c.cfg.Email,
		"product": c.cfg.Product,
		"time":    strconv.FormatInt(c.now().Unix(), 10),
	}
	for k, v := range extra {
		params[k] = v
	}
	params[signField] = Sign(params, c.cfg.Key)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	endpoint := c.cfg.BaseURL + "/smilecoin/api/" + op
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, transport(op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("provider call failed", "layer", "client", "component", "provider", "method", op, "err", err)
		return nil, transport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected http status %d", resp.StatusCode)
		c.logger.Warn("provider call failed", "layer", "client", "component", "provider", "method", op, "status", resp.StatusCode)
		return nil, transport(op, err)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	dec.UseNumber()
	var out apiResponse
	if err := dec.Decode(&out); err != nil {
		c.logger.Warn("provider response unreadable", "layer", "client", "component", "provider", "method", op, "err", err)
		return nil, transport(op, errors.Join(errors.New("malformed response"), err))
	}
	if out.Status.String() != "200" {
		c.logger.Info("provider rejected request", "layer", "client", "component", "provider", "method", op, "status", out.Status.String(), "message", out.Message)
		return nil, rejected(op, out.Message)
	}
	return &out, nil
}
