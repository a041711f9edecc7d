package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// CI is a national identity number. The backend stores it as text but older
// rows come back as JSON numbers, so both forms are accepted.
type CI string

func (c *CI) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CI(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding ci: %w", err)
	}
	*c = CI(n.String())
	return nil
}

// User is a wallet holder as returned by login and profile lookups.
type User struct {
	ID           int64   `json:"id" yaml:"id"`
	CI           CI      `json:"ci" yaml:"ci"`
	Name         string  `json:"nombre" yaml:"name"`
	Email        string  `json:"email,omitempty" yaml:"email,omitempty"`
	Phone        string  `json:"telefono,omitempty" yaml:"phone,omitempty"`
	Balance      float64 `json:"saldo" yaml:"balance"`
	RegisteredAt string  `json:"fecha_registro,omitempty" yaml:"registered_at,omitempty"`
	Active       *bool   `json:"activo,omitempty" yaml:"active,omitempty"`
}

// Contact returns the email, falling back to the CI, as the dashboard header does.
func (u User) Contact() string {
	if u.Email != "" {
		return u.Email
	}
	return string(u.CI)
}

// Card is an RFID card linked to the user's wallet.
type Card struct {
	ID           int64  `json:"id" yaml:"id"`
	UID          string `json:"uid" yaml:"uid"`
	Active       bool   `json:"activa" yaml:"active"`
	RegisteredAt string `json:"fecha_registro,omitempty" yaml:"registered_at,omitempty"`
}

// Profile is the dashboard payload of GET /api/perfil.
type Profile struct {
	User  User   `json:"usuario" yaml:"user"`
	Cards []Card `json:"tarjetas" yaml:"cards"`
}

// LoginResponse is returned by POST /api/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Transaction types reported by the history endpoint.
const (
	TxTopUp            = "recarga"
	TxCharge           = "cobro"
	TxTransferSent     = "transferencia_enviada"
	TxTransferReceived = "transferencia_recibida"
)

// Transaction is one entry of the merged transaction history.
type Transaction struct {
	ID          int64   `json:"id" yaml:"id"`
	Amount      float64 `json:"monto" yaml:"amount"`
	Type        string  `json:"tipo" yaml:"type"`
	Status      string  `json:"estado" yaml:"status"`
	Date        string  `json:"fecha" yaml:"date"`
	Description string  `json:"descripcion,omitempty" yaml:"description,omitempty"`
	Terminal    string  `json:"tarjetero,omitempty" yaml:"terminal,omitempty"`
	Recipient   string  `json:"destinatario,omitempty" yaml:"recipient,omitempty"`
	Sender      string  `json:"remitente,omitempty" yaml:"sender,omitempty"`
	Category    string  `json:"categoria,omitempty" yaml:"category,omitempty"`
}

// Credit reports whether the transaction added funds to the wallet.
func (t Transaction) Credit() bool {
	return t.Type == TxTopUp || t.Type == TxTransferReceived
}

// Title is the human label shown for the transaction.
func (t Transaction) Title() string {
	switch t.Type {
	case TxTopUp:
		return "Top-up"
	case TxTransferReceived:
		return "Transfer from " + t.Sender
	case TxTransferSent:
		return "Transfer to " + t.Recipient
	default:
		if t.Terminal != "" {
			return t.Terminal
		}
		return t.Type
	}
}

// Settled reports whether the backend marked the transaction as done.
func (t Transaction) Settled() bool {
	return t.Status == "aprobada" || t.Status == "completada"
}

// Time parses Date. The backend emits naive ISO-8601 timestamps, with or
// without fractional seconds.
func (t Transaction) Time() (time.Time, bool) {
	for _, layout := range []string{"2006-01-02T15:04:05.999999", time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, t.Date); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

type historyResponse struct {
	Transactions []Transaction `json:"transacciones"`
}

// TransferRequest is the body of POST /api/transferir.
type TransferRequest struct {
	RecipientCI string  `json:"ci_destino"`
	Amount      float64 `json:"monto"`
	Description string  `json:"descripcion"`
}

// TransferResult is returned on a successful transfer.
type TransferResult struct {
	Message    string  `json:"mensaje" yaml:"message"`
	NewBalance float64 `json:"nuevo_saldo" yaml:"new_balance"`
	Recipient  string  `json:"destinatario" yaml:"recipient"`
	Amount     float64 `json:"monto" yaml:"amount"`
}

// RedeemResult is returned when a top-up card code is redeemed.
type RedeemResult struct {
	Message    string  `json:"mensaje" yaml:"message"`
	Amount     float64 `json:"monto" yaml:"amount"`
	NewBalance float64 `json:"nuevo_saldo" yaml:"new_balance"`
	Code       string  `json:"codigo" yaml:"code"`
}

// AvailableCards groups unused top-up cards by face value.
type AvailableCards struct {
	Amount   float64 `json:"monto" yaml:"amount"`
	Quantity int     `json:"cantidad" yaml:"quantity"`
}

type availableCardsResponse struct {
	Cards []AvailableCards `json:"tarjetas"`
}

type messageResponse struct {
	Message string `json:"mensaje"`
}

type userResponse struct {
	User User `json:"usuario"`
}

// TerminalTransaction is one of the latest charges made on a card terminal.
type TerminalTransaction struct {
	Amount float64 `json:"monto" yaml:"amount"`
	Date   string  `json:"fecha" yaml:"date"`
	User   string  `json:"usuario" yaml:"user"`
}

// TerminalInfo is returned by GET /tarjetero/<id>. The terminal row is passed
// through as the backend's raw column map.
type TerminalInfo struct {
	Terminal     map[string]any        `json:"tarjetero" yaml:"terminal"`
	Transactions []TerminalTransaction `json:"ultimas_transacciones" yaml:"latest_transactions"`
}

// CardBalance is returned by POST /consultar_saldo.
type CardBalance struct {
	Balance float64 `json:"saldo" yaml:"balance"`
	Name    string  `json:"nombre" yaml:"name"`
}
