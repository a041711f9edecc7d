package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// The admin panel endpoints are served without a bearer token.

// AdminLookupUser returns the id, name, balance and status for a CI.
func (c *Client) AdminLookupUser(ctx context.Context, ci string) (*User, error) {
	ci = strings.TrimSpace(ci)
	if ci == "" {
		return nil, ErrEmptyCI
	}

	out := &User{CI: CI(ci)}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/buscar_usuario_por_ci",
		body:   map[string]string{"ci": ci},
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Terminal returns a card terminal and its five latest charges.
func (c *Client) Terminal(ctx context.Context, id int) (*TerminalInfo, error) {
	if id <= 0 {
		return nil, errors.New("terminal id must be positive")
	}

	out := &TerminalInfo{}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/tarjetero/" + strconv.Itoa(id),
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CardBalance returns the wallet balance behind an RFID card UID.
func (c *Client) CardBalance(ctx context.Context, uid string) (*CardBalance, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, errors.New("card uid is required")
	}

	out := &CardBalance{}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/consultar_saldo",
		body:   map[string]string{"uid_tarjeta": uid},
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
