package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Login exchanges a username (CI, email or name) and password for an access
// token. It does not require an existing session. The password is sent as
// typed.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	out := &LoginResponse{}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/login",
		body: map[string]string{
			"username": username,
			"password": password,
		},
	}, out)
	if err != nil {
		return nil, err
	}

	if out.AccessToken == "" {
		return nil, errors.New("login response did not include an access token")
	}

	return out, nil
}

// Profile fetches the user and their RFID cards.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	out := &Profile{}
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/perfil", auth: true}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Default history sizes used by the dashboard.
const (
	RecentHistoryLimit = 5
	FullHistoryLimit   = 50
)

// History returns up to limit transactions, newest first. A non-positive
// limit leaves the size to the backend.
func (c *Client) History(ctx context.Context, limit int) ([]Transaction, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limite", strconv.Itoa(limit))
	}

	out := &historyResponse{}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/historial_transacciones",
		query:  q,
		auth:   true,
	}, out)
	if err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// Transfer sends money to the holder of another CI.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	req.RecipientCI = strings.TrimSpace(req.RecipientCI)
	if req.RecipientCI == "" {
		return nil, ErrEmptyCI
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	out := &TransferResult{}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/transferir",
		body:   req,
		auth:   true,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeCode trims and upper-cases a top-up card code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Redeem credits the wallet with a prepaid top-up card.
func (c *Client) Redeem(ctx context.Context, code string) (*RedeemResult, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	out := &RedeemResult{}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/canjear-tarjeta",
		body:   map[string]string{"codigo": code},
		auth:   true,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AvailableCards lists unused top-up cards grouped by amount.
func (c *Client) AvailableCards(ctx context.Context) ([]AvailableCards, error) {
	out := &availableCardsResponse{}
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/tarjetas-disponibles", auth: true}, out)
	if err != nil {
		return nil, err
	}
	return out.Cards, nil
}

// ChangePassword replaces the account password and returns the backend's
// confirmation message.
func (c *Client) ChangePassword(ctx context.Context, current, next string) (string, error) {
	if current == "" || next == "" {
		return "", ErrMissingPassword
	}
	if len(next) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	out := &messageResponse{}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/cambiar_password",
		body: map[string]string{
			"password_actual": current,
			"password_nueva":  next,
		},
		auth: true,
	}, out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// SearchUser looks up another wallet holder by CI, e.g. before a transfer.
func (c *Client) SearchUser(ctx context.Context, ci string) (*User, error) {
	ci = strings.TrimSpace(ci)
	if ci == "" {
		return nil, ErrEmptyCI
	}

	out := &userResponse{}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/buscar_usuario",
		body:   map[string]string{"ci": ci},
		auth:   true,
	}, out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}
