package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fortressguard/fortress/console"
	"github.com/fortressguard/fortress/fortress"
	"github.com/fortressguard/fortress/strength"
)

// HealthResponse reports that the console is up and which API it targets.
type HealthResponse struct {
	Body struct {
		Status  string `json:"status" example:"ok" doc:"Service status"`
		Message string `json:"message,omitempty" example:"FortressGuard Console is running" doc:"Optional status message"`
		Version string `json:"version,omitempty" example:"1.0.0" doc:"Console version"`
		API     string `json:"api" example:"http://localhost:3000/api/v1" doc:"FortressGuard API base URL"`
	}
}

// LaneOutput is the state of one lane after a trigger settled.
type LaneOutput[T any] struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      console.RequestState[T]
}

// StateOutput is every lane of the caller's session.
type StateOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      console.Snapshot
}

type StateInput struct {
	Session string `cookie:"fg_session"`
}

type GeneratePasswordInput struct {
	Session string `cookie:"fg_session"`
	Length  int    `query:"length" minimum:"0" maximum:"128" doc:"Password length, 0 lets the API decide"`
	Special string `query:"special" enum:"true,false" doc:"Include special characters"`
}

type ValidatePasswordInput struct {
	Session  string `cookie:"fg_session"`
	Password string `query:"password" doc:"Password to score"`
}

type EncryptTextInput struct {
	Session string `cookie:"fg_session"`
	Text    string `query:"text" doc:"Plain text to encrypt"`
}

type DecryptTextInput struct {
	Session       string `cookie:"fg_session"`
	EncryptedText string `query:"encryptedText" doc:"Cipher text to decrypt"`
}

type StatisticsInput struct {
	Session string `cookie:"fg_session"`
}

type StrengthInput struct {
	Password string `query:"password" doc:"Password to score locally"`
}

type StrengthOutput struct {
	Body strength.Report
}

type routes struct {
	sessions *SessionStore
	name     string
	version  string
	apiURL   string
}

func (rt *routes) session(id string) (http.Cookie, *console.Console) {
	id, c := rt.sessions.Get(id)
	return http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(rt.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, c
}

func (rt *routes) register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health Check",
		Description: "Check if the console is running and which API it talks to",
		Tags:        []string{"Health"},
	}, func(ctx context.Context, input *struct{}) (*HealthResponse, error) {
		resp := &HealthResponse{}
		resp.Body.Status = "ok"
		resp.Body.Message = rt.name + " is running"
		resp.Body.Version = rt.version
		resp.Body.API = rt.apiURL
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "console-state",
		Method:      http.MethodGet,
		Path:        "/api/console/state",
		Summary:     "Console state",
		Description: "Current state of every request lane in this session",
		Tags:        []string{"Console"},
	}, func(ctx context.Context, input *StateInput) (*StateOutput, error) {
		cookie, c := rt.session(input.Session)
		return &StateOutput{SetCookie: cookie, Body: c.Snapshot()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "generate-password",
		Method:      http.MethodGet,
		Path:        "/api/console/generate-password",
		Summary:     "Generate password",
		Tags:        []string{"Console"},
	}, func(ctx context.Context, input *GeneratePasswordInput) (*LaneOutput[fortress.GeneratePasswordResponse], error) {
		cookie, c := rt.session(input.Session)
		var opts []console.PasswordOption
		if input.Length > 0 {
			opts = append(opts, console.WithLength(input.Length))
		}
		if input.Special != "" {
			opts = append(opts, console.WithSpecial(input.Special == "true"))
		}
		return &LaneOutput[fortress.GeneratePasswordResponse]{
			SetCookie: cookie,
			Body:      c.GeneratePassword(ctx, opts...),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "validate-password",
		Method:      http.MethodGet,
		Path:        "/api/console/validate-password",
		Summary:     "Validate password",
		Tags:        []string{"Console"},
	}, func(ctx context.Context, input *ValidatePasswordInput) (*LaneOutput[fortress.ValidatePasswordResponse], error) {
		cookie, c := rt.session(input.Session)
		return &LaneOutput[fortress.ValidatePasswordResponse]{
			SetCookie: cookie,
			Body:      c.ValidatePassword(ctx, input.Password),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "encrypt-text",
		Method:      http.MethodGet,
		Path:        "/api/console/encrypt-text",
		Summary:     "Encrypt text",
		Tags:        []string{"Console"},
	}, func(ctx context.Context, input *EncryptTextInput) (*LaneOutput[fortress.EncryptResponse], error) {
		cookie, c := rt.session(input.Session)
		return &LaneOutput[fortress.EncryptResponse]{
			SetCookie: cookie,
			Body:      c.EncryptText(ctx, input.Text),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "decrypt-text",
		Method:      http.MethodGet,
		Path:        "/api/console/decrypt-text",
		Summary:     "Decrypt text",
		Tags:        []string{"Console"},
	}, func(ctx context.Context, input *DecryptTextInput) (*LaneOutput[fortress.DecryptResponse], error) {
		cookie, c := rt.session(input.Session)
		return &LaneOutput[fortress.DecryptResponse]{
			SetCookie: cookie,
			Body:      c.DecryptText(ctx, input.EncryptedText),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-statistics",
		Method:      http.MethodGet,
		Path:        "/api/console/statistics",
		Summary:     "Service statistics",
		Tags:        []string{"Console"},
	}, func(ctx context.Context, input *StatisticsInput) (*LaneOutput[fortress.StatisticsResponse], error) {
		cookie, c := rt.session(input.Session)
		return &LaneOutput[fortress.StatisticsResponse]{
			SetCookie: cookie,
			Body:      c.GetStatistics(ctx),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "password-strength",
		Method:      http.MethodGet,
		Path:        "/api/console/strength",
		Summary:     "Password strength",
		Description: "Score a password locally without calling the API",
		Tags:        []string{"Console"},
	}, func(ctx context.Context, input *StrengthInput) (*StrengthOutput, error) {
		return &StrengthOutput{Body: strength.Evaluate(input.Password)}, nil
	})
}
