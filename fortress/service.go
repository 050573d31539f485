// Package fortress exposes the FortressGuard operations as typed calls.
package fortress

import (
	"context"

	"github.com/fortressguard/fortress/client"
	"github.com/fortressguard/fortress/config"
)

// Service is a thin typed layer over client.Fetch. It adds no validation;
// envelopes and errors are returned as the client produced them.
type Service struct {
	client *client.Client
}

func NewService(c *client.Client) *Service {
	return &Service{client: c}
}

// Client returns the underlying API client.
func (s *Service) Client() *client.Client {
	return s.client
}

func (s *Service) GeneratePassword(ctx context.Context, p PasswordParams) (client.Envelope[GeneratePasswordResponse], error) {
	params := client.Params{}.
		Add("length", p.Length).
		Add("special", p.Special)
	return client.Fetch[GeneratePasswordResponse](ctx, s.client, s.endpoints().GeneratePassword, params)
}

func (s *Service) ValidatePassword(ctx context.Context, p ValidationParams) (client.Envelope[ValidatePasswordResponse], error) {
	params := client.Params{}.Add("password", p.Password)
	return client.Fetch[ValidatePasswordResponse](ctx, s.client, s.endpoints().ValidatePassword, params)
}

func (s *Service) EncryptText(ctx context.Context, p EncryptionParams) (client.Envelope[EncryptResponse], error) {
	params := client.Params{}.Add("text", p.Text)
	return client.Fetch[EncryptResponse](ctx, s.client, s.endpoints().EncryptText, params)
}

func (s *Service) DecryptText(ctx context.Context, p DecryptionParams) (client.Envelope[DecryptResponse], error) {
	params := client.Params{}.Add("encryptedText", p.EncryptedText)
	return client.Fetch[DecryptResponse](ctx, s.client, s.endpoints().DecryptText, params)
}

func (s *Service) GetStatistics(ctx context.Context) (client.Envelope[StatisticsResponse], error) {
	return client.Fetch[StatisticsResponse](ctx, s.client, s.endpoints().Statistics, nil)
}

func (s *Service) endpoints() config.Endpoints {
	return s.client.Config().Endpoints
}
