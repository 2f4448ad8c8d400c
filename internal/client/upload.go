package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

const UploadPath = "/upload-livro"

// ErrNoFile is returned when an upload names no file.
var ErrNoFile = errors.New("no file selected")

// UploadRequest describes a work submitted for review.
type UploadRequest struct {
	Titulo             string
	Autor              string
	FilePath           string
	AnoLancamento      *int
	Genero             string
	MovimentoLiterario string
}

// UploadResult is the backend's acknowledgement.
type UploadResult struct {
	Mensagem string `json:"mensagem"`
	LivroID  int    `json:"livro_id"`
	Titulo   string `json:"titulo"`
	Status   string `json:"status"`
}

// Upload sends the PDF and its metadata as a multipart form.
func (c *Client) Upload(ctx context.Context, in UploadRequest) (*UploadResult, error) {
	if in.FilePath == "" {
		return nil, ErrNoFile
	}
	f, err := os.Open(in.FilePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", in.FilePath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"titulo", in.Titulo},
		{"autor", in.Autor},
	}
	if in.AnoLancamento != nil {
		fields = append(fields, [2]string{"ano_lancamento", strconv.Itoa(*in.AnoLancamento)})
	}
	if in.Genero != "" {
		fields = append(fields, [2]string{"genero", in.Genero})
	}
	if in.MovimentoLiterario != "" {
		fields = append(fields, [2]string{"movimento_literario", in.MovimentoLiterario})
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", kv[0], err)
		}
	}

	part, err := mw.CreateFormFile("file", filepath.Base(in.FilePath))
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copying %s: %w", in.FilePath, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, UploadPath, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		msg := detailMessage(body)
		if msg == "" {
			msg = "unknown upload error"
		}
		return nil, &APIError{Op: "upload", Status: status, Message: msg}
	}

	var res UploadResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing upload response: %w", err)
	}
	return &res, nil
}
