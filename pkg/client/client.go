// Package client is a Go client for the khata API.
//
// Client maps the HTTP API one to one. Gateway keeps a local copy of the
// ledger on top of a Client and reports the outcome of every operation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// APIError is returned for all responses with a status code >= 400.
type APIError struct {
	StatusCode int
	Message    string // Message sent by the server, may be empty
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}

	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// Expense is an expense as returned by the API.
type Expense struct {
	ID            uuid.UUID       `json:"id"`
	RecipientName string          `json:"recipientName"`
	Reason        string          `json:"reason"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Month         string          `json:"month"`
	Year          string          `json:"year"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ExpenseFields are the fields needed to add an expense.
type ExpenseFields struct {
	RecipientName string          `json:"recipientName"`
	Reason        string          `json:"reason"`
	Amount        decimal.Decimal `json:"amount"`
	Date          *time.Time      `json:"date,omitempty"` // Defaults to now on the server
}

// ExpensePatch contains the fields to change on an expense. Only
// fields that are not nil are sent.
type ExpensePatch struct {
	RecipientName *string          `json:"recipientName,omitempty"`
	Reason        *string          `json:"reason,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Date          *time.Time       `json:"date,omitempty"`
}

// ExpenseResponse is the response for a single expense.
type ExpenseResponse struct {
	Message string  `json:"message"`
	Expense Expense `json:"expense"`
}

// ExpenseList is the response for listing expenses.
type ExpenseList struct {
	Message    string          `json:"message"`
	Expenses   []Expense       `json:"expenses"`
	Budget     decimal.Decimal `json:"budget"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	Balance    decimal.Decimal `json:"balance"`
}

// Query filters the expenses returned by ListExpenses.
// Month and Year must be set together.
type Query struct {
	Month     string
	Year      string
	Recipient string
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Month != "" {
		v.Set("month", q.Month)
	}
	if q.Year != "" {
		v.Set("year", q.Year)
	}
	if q.Recipient != "" {
		v.Set("recipient", q.Recipient)
	}

	return v
}

// User is a user as returned by the API.
type User struct {
	ID       uuid.UUID       `json:"id"`
	FullName string          `json:"fullName"`
	Email    string          `json:"email"`
	Budget   decimal.Decimal `json:"budget"`
}

// SignUp contains the data to register a user.
type SignUp struct {
	FullName string          `json:"fullName"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Budget   decimal.Decimal `json:"budget"`
}

type userResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Client talks to the API. The session cookie is kept in a cookie jar,
// so a Client represents one signed in user.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient sets the http.Client used for requests. If it does not
// have a cookie jar, one is added.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New returns a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if !u.IsAbs() {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}

	return c, nil
}

// do sends a request and decodes the JSON response into target.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, target any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var m messageResponse
		_ = json.Unmarshal(data, &m)
		return &APIError{StatusCode: resp.StatusCode, Message: m.Message}
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}

	return nil
}

// SignUp registers a new user and signs them in.
func (c *Client) SignUp(ctx context.Context, data SignUp) (User, error) {
	var r userResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", nil, data, &r)
	return r.User, err
}

// SignIn signs in with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) (User, error) {
	var r userResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/signin", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &r)
	return r.User, err
}

// Check returns the signed in user.
func (c *Client) Check(ctx context.Context) (User, error) {
	var r userResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/check", nil, nil, &r)
	return r.User, err
}

// SignOut ends the session.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil, nil)
}

// SetBudget sets the monthly budget of the signed in user.
func (c *Client) SetBudget(ctx context.Context, amount decimal.Decimal) (User, error) {
	var r userResponse
	err := c.do(ctx, http.MethodPut, "/api/auth/budget", nil, map[string]decimal.Decimal{"budget": amount}, &r)
	return r.User, err
}

// ListExpenses returns the expenses matching the query, newest first.
func (c *Client) ListExpenses(ctx context.Context, q Query) (ExpenseList, error) {
	var r ExpenseList
	err := c.do(ctx, http.MethodGet, "/api/expenses", q.values(), nil, &r)
	return r, err
}

// AddExpense records a new expense.
func (c *Client) AddExpense(ctx context.Context, fields ExpenseFields) (ExpenseResponse, error) {
	var r ExpenseResponse
	err := c.do(ctx, http.MethodPost, "/api/expenses/add", nil, fields, &r)
	return r, err
}

// UpdateExpense changes the fields of the expense that are set in patch.
func (c *Client) UpdateExpense(ctx context.Context, id uuid.UUID, patch ExpensePatch) (ExpenseResponse, error) {
	var r ExpenseResponse
	err := c.do(ctx, http.MethodPut, "/api/expenses/"+id.String(), nil, patch, &r)
	return r, err
}

// DeleteExpense deletes the expense and returns the server message.
func (c *Client) DeleteExpense(ctx context.Context, id uuid.UUID) (string, error) {
	var r messageResponse
	err := c.do(ctx, http.MethodDelete, "/api/expenses/"+id.String(), nil, nil, &r)
	return r.Message, err
}

// serverMessage returns the message sent by the server for err, or fallback.
func serverMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}
