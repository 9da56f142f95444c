package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
)

type viaCEPResponse struct {
	CEP         string          `json:"cep"`
	Logradouro  string          `json:"logradouro"`
	Complemento string          `json:"complemento"`
	Bairro      string          `json:"bairro"`
	Localidade  string          `json:"localidade"`
	UF          string          `json:"uf"`
	Erro        json.RawMessage `json:"erro"`
}

// Client queries a ViaCEP compatible postal code service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Normalize strips formatting from a postal code and checks it has 8 digits.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r != '-' && r != '.' && r != ' ' {
			return "", invalid(raw)
		}
	}
	if b.Len() != 8 {
		return "", invalid(raw)
	}
	return b.String(), nil
}

func invalid(raw string) error {
	return apperrors.NewValidationError("invalid postal code", apperrors.ValidationDetail{
		Field:   "cep",
		Message: fmt.Sprintf("%q must have 8 digits", raw),
	})
}

// Lookup returns the address fragment for a postal code, or a NotFoundError.
func (c *Client) Lookup(ctx context.Context, raw string) (domain.Address, error) {
	code, err := Normalize(raw)
	if err != nil {
		return domain.Address{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, code), nil)
	if err != nil {
		return domain.Address{}, fmt.Errorf("building cep request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("cep lookup failed", zap.String("cep", code), zap.Error(err))
		return domain.Address{}, fmt.Errorf("calling cep service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return domain.Address{}, invalid(raw)
	case resp.StatusCode == http.StatusNotFound:
		return domain.Address{}, notFound(code)
	case resp.StatusCode != http.StatusOK:
		return domain.Address{}, fmt.Errorf("cep service returned status %d", resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Address{}, fmt.Errorf("decoding cep response: %w", err)
	}
	if len(body.Erro) > 0 && string(body.Erro) != "false" {
		return domain.Address{}, notFound(code)
	}

	return domain.Address{
		CEP:          body.CEP,
		Street:       body.Logradouro,
		Complement:   body.Complemento,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}

func notFound(code string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("cep %s not found", code))
}
