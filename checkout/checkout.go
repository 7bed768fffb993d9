// Package checkout submits the cart as an order to the backend and
// clears the cart once the order is accepted.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopcart/cart"
	"shopcart/catalog"
)

// ErrEmptyCart is returned when Submit is called with nothing to order.
var ErrEmptyCart = errors.New("cart is empty")

const paymentIframeFormat = "https://accept.paymob.com/api/acceptance/iframes/%s?payment_token=%s"

// ShippingAddress is the delivery information sent with the order.
type ShippingAddress struct {
	Address1 string `json:"shippingAddress1"`
	Address2 string `json:"shippingAddress2"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

type orderItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type orderRequest struct {
	OrderItems []orderItem `json:"orderItems"`
	ShippingAddress
}

// Confirmation is the accepted-order result. PaymentURL is set when the
// backend hands back a payment key for the hosted payment page.
type Confirmation struct {
	OrderID    string
	PaymentURL string
}

// SubmitError is a rejected order. Fields holds per-field validation
// messages from the backend, keyed by field name.
type SubmitError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *SubmitError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("order rejected: %d %s", e.StatusCode, e.Message)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("order rejected: %d %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
}

// Service submits orders to the backend order API.
type Service struct {
	baseURL *url.URL
	http    *http.Client
	engine  *cart.Engine
	logger  *slog.Logger
}

// NewService constructs a Service against the given API base URL.
func NewService(baseURL string, httpClient *http.Client, engine *cart.Engine, logger *slog.Logger) (*Service, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid order base url %q: %w", baseURL, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{baseURL: u, http: httpClient, engine: engine, logger: logger}, nil
}

type confirmationData struct {
	OrderID string `json:"orderId"`
	Order   struct {
		ID string `json:"_id"`
	} `json:"order"`
	PaymentKey string      `json:"paymentKey"`
	FrameID    json.Number `json:"frame_id"`
}

type rejection struct {
	Message string `json:"message"`
	Errors  map[string]struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Submit sends the current cart as an order. The cart is cleared only
// after the backend accepts the order; any failure leaves it intact so
// the user can retry.
func (s *Service) Submit(ctx context.Context, addr ShippingAddress) (Confirmation, error) {
	c := s.engine.Load(ctx)
	if c.IsEmpty() {
		return Confirmation{}, ErrEmptyCart
	}

	reqBody := orderRequest{ShippingAddress: addr}
	for _, e := range c.Entries {
		reqBody.OrderItems = append(reqBody.OrderItems, orderItem{Product: e.ProductID, Quantity: e.Quantity})
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Confirmation{}, err
	}

	u := s.baseURL.ResolveReference(&url.URL{Path: "orders/make-order"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return Confirmation{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(catalog.HeaderRequestID, uuid.NewString())

	resp, err := s.http.Do(req)
	if err != nil {
		return Confirmation{}, fmt.Errorf("order request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Confirmation{}, fmt.Errorf("order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var rej rejection
		_ = json.Unmarshal(body, &rej)
		se := &SubmitError{StatusCode: resp.StatusCode, Message: rej.Message}
		if se.Message == "" {
			se.Message = http.StatusText(resp.StatusCode)
		}
		for field, v := range rej.Errors {
			if v.Message == "" {
				continue
			}
			if se.Fields == nil {
				se.Fields = make(map[string]string)
			}
			se.Fields[field] = v.Message
		}
		return Confirmation{}, se
	}

	var env struct {
		Data confirmationData `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Confirmation{}, fmt.Errorf("order response: %w", err)
	}

	conf := Confirmation{OrderID: env.Data.OrderID}
	if conf.OrderID == "" {
		conf.OrderID = env.Data.Order.ID
	}
	if env.Data.PaymentKey != "" && env.Data.FrameID.String() != "" {
		conf.PaymentURL = fmt.Sprintf(paymentIframeFormat, env.Data.FrameID.String(), env.Data.PaymentKey)
	}

	if err := s.engine.Clear(ctx); err != nil {
		// order already accepted; do not fail the submit
		s.logger.Warn("order accepted but cart not cleared", "order_id", conf.OrderID, "error", err)
	}
	s.logger.Info("order submitted", "order_id", conf.OrderID, "items", len(reqBody.OrderItems))
	return conf, nil
}
