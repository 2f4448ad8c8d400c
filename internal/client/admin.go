package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"github.com/Paintersrp/scriptura/internal/catalog"
)

const (
	AdminListPath   = "/admin/listar-todos"
	AdminUpdatePath = "/admin/atualizar-livro/"
	AdminDeletePath = "/admin/excluir-livro/"

	adminTokenTTL = 5 * time.Minute
)

// Catalog is the admin side of the backend.
type Catalog interface {
	ListWorks(ctx context.Context) ([]catalog.AdminWork, error)
	UpdateWork(ctx context.Context, id int, update catalog.AdminUpdate) error
	DeleteWork(ctx context.Context, id int) error
}

// AdminToken signs a short-lived bearer token with the shared secret.
func AdminToken(secret string, now time.Time) (string, error) {
	claims := jwt.StandardClaims{
		Issuer:    "scriptura",
		Subject:   "admin",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(adminTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (c *Client) newAdminRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.adminSecret != "" {
		token, err := AdminToken(c.adminSecret, c.now())
		if err != nil {
			return nil, fmt.Errorf("signing admin token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// ListWorks returns every catalogued work, including those under review.
func (c *Client) ListWorks(ctx context.Context) ([]catalog.AdminWork, error) {
	req, err := c.newAdminRequest(ctx, http.MethodGet, AdminListPath, nil)
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, &APIError{Op: "list works", Status: status, Message: failureMessage(status, body)}
	}

	var works []catalog.AdminWork
	if err := json.Unmarshal(body, &works); err != nil {
		return nil, fmt.Errorf("parsing work listing: %w", err)
	}
	return works, nil
}

// UpdateWork replaces the editable fields of work id.
func (c *Client) UpdateWork(ctx context.Context, id int, update catalog.AdminUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encoding update: %w", err)
	}

	req, err := c.newAdminRequest(ctx, http.MethodPut, AdminUpdatePath+strconv.Itoa(id), payload)
	if err != nil {
		return err
	}

	status, body, err := c.do(req)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return &APIError{Op: "update work", Status: status, Message: failureMessage(status, body)}
	}
	c.logger.Info("work updated", zap.Int("id", id), zap.String("status", string(update.Status)))
	return nil
}

// DeleteWork removes work id from the catalogue.
func (c *Client) DeleteWork(ctx context.Context, id int) error {
	req, err := c.newAdminRequest(ctx, http.MethodDelete, AdminDeletePath+strconv.Itoa(id), nil)
	if err != nil {
		return err
	}

	status, body, err := c.do(req)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return &APIError{Op: "delete work", Status: status, Message: failureMessage(status, body)}
	}
	c.logger.Info("work deleted", zap.Int("id", id))
	return nil
}
