// Package snaps is the HTTP client for the SnapsBooking platform API, the
// upstream system of record for catalogs, availability, clients, and
// appointments. The engine treats its availability output as authoritative
// and never recomputes feasibility locally.
package snaps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/snapsbooking/bookngon-api/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// Client wraps REST calls to the platform's business-booking endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timezone   string
	logger     *logging.Logger
}

// NewClient constructs a platform client. An empty baseURL falls back to the
// production endpoint; timezone is sent as the X-Timezone header.
func NewClient(baseURL, timezone string, logger *logging.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		timezone:   timezone,
		logger:     logger,
	}
}

// GetBusinessInfo loads the public booking profile for a business.
func (c *Client) GetBusinessInfo(ctx context.Context, businessID int64) (*Business, error) {
	q := url.Values{}
	q.Set("business_id", strconv.FormatInt(businessID, 10))

	var out envelope[Business]
	if err := c.doJSON(ctx, http.MethodGet, "/business-booking/business-info?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("get business info: %w", err)
	}
	return &out.Results, nil
}

// GetCategoriesServices returns the ordered catalog of categories with their
// nested services.
func (c *Client) GetCategoriesServices(ctx context.Context, businessID int64) ([]Category, error) {
	q := url.Values{}
	q.Set("business_id", strconv.FormatInt(businessID, 10))

	var out envelope[[]Category]
	if err := c.doJSON(ctx, http.MethodGet, "/business-booking/categories-services?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("get categories services: %w", err)
	}
	return out.Results, nil
}

// GetTechnicians lists the active staff for a business.
func (c *Client) GetTechnicians(ctx context.Context, businessID int64) ([]Staff, error) {
	q := url.Values{}
	q.Set("business_id", strconv.FormatInt(businessID, 10))

	var out envelope[[]Staff]
	if err := c.doJSON(ctx, http.MethodGet, "/business-booking/technicians?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("get technicians: %w", err)
	}
	return out.Results, nil
}

// GetTimeSlots returns available start-time candidates for the query's
// (date, services, duration, staff) combination.
func (c *Client) GetTimeSlots(ctx context.Context, query TimeSlotsQuery) ([]TimeSlot, error) {
	q := url.Values{}
	q.Set("business_id", strconv.FormatInt(query.BusinessID, 10))
	q.Set("date", query.Date)
	q.Set("duration", strconv.Itoa(query.Duration))
	for _, id := range query.ServiceIDs {
		q.Add("service_ids", strconv.FormatInt(id, 10))
	}
	if query.StaffID != 0 {
		q.Set("staff_id", strconv.FormatInt(query.StaffID, 10))
	}

	var out envelope[[]TimeSlot]
	if err := c.doJSON(ctx, http.MethodGet, "/business-booking/available-time-slots?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("get time slots: %w", err)
	}
	return out.Results, nil
}

// GetClientByPhone looks up a returning client by phone number. A missing
// client is an error from the platform, surfaced as-is.
func (c *Client) GetClientByPhone(ctx context.Context, businessID int64, phone string) (*ClientRecord, error) {
	q := url.Values{}
	q.Set("business_id", strconv.FormatInt(businessID, 10))
	q.Set("phone", phone)

	var out envelope[ClientRecord]
	if err := c.doJSON(ctx, http.MethodGet, "/business-booking/client-by-phone/?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("get client by phone: %w", err)
	}
	return &out.Results, nil
}

// CreateClient registers a new client record with the business.
func (c *Client) CreateClient(ctx context.Context, client ClientRecord) (*ClientRecord, error) {
	var out envelope[ClientRecord]
	if err := c.doJSON(ctx, http.MethodPost, "/business-booking/client/", client, &out); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &out.Results, nil
}

// UpdateClient updates an existing client record.
func (c *Client) UpdateClient(ctx context.Context, id int64, client ClientRecord) (*ClientRecord, error) {
	path := fmt.Sprintf("/business-booking/client/%d", id)
	var out envelope[ClientRecord]
	if err := c.doJSON(ctx, http.MethodPut, path, client, &out); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return &out.Results, nil
}

// CreateAppointment submits the fully composed appointment payload.
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	var out envelope[Appointment]
	if err := c.doJSON(ctx, http.MethodPost, "/business-booking/appointment/", req, &out); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &out.Results, nil
}

// CancelAppointment cancels an existing appointment on behalf of a client.
func (c *Client) CancelAppointment(ctx context.Context, businessID, clientID, appointmentID int64) error {
	body := map[string]int64{
		"business_id":    businessID,
		"client_id":      clientID,
		"appointment_id": appointmentID,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/business-booking/appointment/cancel/", body, nil); err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.timezone != "" {
		req.Header.Set("X-Timezone", c.timezone)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Warn("snaps API non-2xx response", "status", resp.StatusCode, "path", path, "body", msg)
		return fmt.Errorf("snaps API returned %d: %s", resp.StatusCode, msg)
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
