package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"calbook/pkg/model"
)

const BookingPath = "/booking"

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

// StatusError is returned by the typed helpers when the service answers with
// an unexpected status. Code carries the service error code when present.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("booking service returned %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (c *BookingClient) List(ctx context.Context) ([]model.Booking, error) {
	resp, err := c.httpClient.GET(ctx, BookingPath)
	if err != nil {
		return nil, err
	}
	var bookings []model.Booking
	if err := decodeExpected(resp, http.StatusOK, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *BookingClient) Get(ctx context.Context, id string) (*model.Booking, error) {
	resp, err := c.httpClient.GET(ctx, bookingPath(id))
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if err := decodeExpected(resp, http.StatusOK, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) Create(ctx context.Context, input model.BookingInput) (*model.Booking, error) {
	resp, err := c.httpClient.POST(ctx, BookingPath, input)
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if err := decodeExpected(resp, http.StatusCreated, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) Update(ctx context.Context, id string, input model.BookingInput) (*model.Booking, error) {
	resp, err := c.httpClient.PUT(ctx, bookingPath(id), input)
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if err := decodeExpected(resp, http.StatusOK, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) Delete(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, bookingPath(id))
	if err != nil {
		return err
	}
	return decodeExpected(resp, http.StatusNoContent, nil)
}

func bookingPath(id string) string {
	return BookingPath + "/" + url.PathEscape(id)
}

func decodeExpected(resp *Response, status int, target any) error {
	if resp.StatusCode != status {
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = resp.DecodeJSON(&errResp)
		return &StatusError{StatusCode: resp.StatusCode, Code: errResp.Code, Message: errResp.Message}
	}
	if target == nil {
		return nil
	}
	if err := resp.DecodeJSON(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
