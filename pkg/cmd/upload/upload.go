/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scriptura/internal/client"
	"github.com/Paintersrp/scriptura/internal/state"
)

// UnknownError is printed when the backend gives no reason for a failure.
const UnknownError = "unknown upload error"

type options struct {
	titulo    string
	autor     string
	file      string
	ano       string
	genero    string
	movimento string
}

type uploader interface {
	Upload(ctx context.Context, in client.UploadRequest) (*client.UploadResult, error)
}

func NewCmdUpload(s *state.State) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "upload",
		Aliases: []string{"u", "send"},
		Short:   "Send a PDF to the catalogue for review",
		Long: heredoc.Doc(`
			Uploads a PDF with its metadata. New works wait in review until an
			operator approves them from the admin panel.

			--ano takes a year or any date the year can be read from.
		`),
		Example: heredoc.Doc(`
			scriptura upload --titulo "Dom Casmurro" --autor "Machado de Assis" --file dom.pdf
			scriptura upload -t Iracema -a "José de Alencar" -f iracema.pdf --ano 1865 --genero Romance
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), s.Client, *opts)
		},
	}

	cmd.Flags().StringVarP(&opts.titulo, "titulo", "t", "", "Title of the work (required)")
	cmd.Flags().StringVarP(&opts.autor, "autor", "a", "", "Author (required)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to the PDF (required)")
	cmd.Flags().StringVar(&opts.ano, "ano", "", "Release year")
	cmd.Flags().StringVarP(&opts.genero, "genero", "g", "", "Genre")
	cmd.Flags().StringVarP(&opts.movimento, "movimento", "m", "", "Literary movement")
	cmd.MarkFlagRequired("titulo")
	cmd.MarkFlagRequired("autor")
	cmd.MarkFlagRequired("file")

	return cmd
}

func run(ctx context.Context, out io.Writer, up uploader, opts options) error {
	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	res, err := up.Upload(ctx, req)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = UnknownError
			}
			return errors.New(msg)
		}
		return err
	}

	titulo := req.Titulo
	if res != nil && res.Titulo != "" {
		titulo = res.Titulo
	}
	fmt.Fprintf(out, "Success! %q was sent for review.\n", titulo)
	return nil
}

func buildRequest(opts options) (client.UploadRequest, error) {
	req := client.UploadRequest{
		Titulo:             strings.TrimSpace(opts.titulo),
		Autor:              strings.TrimSpace(opts.autor),
		FilePath:           opts.file,
		Genero:             strings.TrimSpace(opts.genero),
		MovimentoLiterario: strings.TrimSpace(opts.movimento),
	}
	if req.Titulo == "" || req.Autor == "" {
		return req, fmt.Errorf("title and author are required")
	}
	if req.FilePath == "" {
		return req, client.ErrNoFile
	}
	info, err := os.Stat(req.FilePath)
	if err != nil {
		return req, fmt.Errorf("checking %s: %w", req.FilePath, err)
	}
	if info.IsDir() {
		return req, fmt.Errorf("%s is a directory", req.FilePath)
	}

	if strings.TrimSpace(opts.ano) != "" {
		year, err := parseYear(opts.ano)
		if err != nil {
			return req, err
		}
		req.AnoLancamento = &year
	}
	return req, nil
}

// parseYear accepts a bare year or a full date.
func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if y, err := strconv.Atoi(raw); err == nil {
		if y <= 0 {
			return 0, fmt.Errorf("invalid year %q", raw)
		}
		return y, nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q: %w", raw, err)
	}
	return t.Year(), nil
}
