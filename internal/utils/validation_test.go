package utils_test

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vitapredict/obesity-backend/internal/utils"
)

type TestModel struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
		errContains string
	}{
		{
			name:        "Valid JSON",
			requestBody: `{"username":"john","email":"john@example.com","password":"password123"}`,
			wantErr:     false,
		},
		{
			name:        "Empty body",
			requestBody: ``,
			wantErr:     true,
			errContains: "empty",
		},
		{
			name:        "Malformed JSON",
			requestBody: `{"username":"john"`,
			wantErr:     true,
		},
		{
			name:        "Unknown field",
			requestBody: `{"username":"john","unknown_field":"value"}`,
			wantErr:     true,
			errContains: "unknown field",
		},
		{
			name:        "Wrong type for field",
			requestBody: `{"username":123}`,
			wantErr:     true,
		},
		{
			name:        "Multiple JSON objects",
			requestBody: `{"username":"john"}{"username":"jane"}`,
			wantErr:     true,
			errContains: "single JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(tt.requestBody))

			var model TestModel
			err := utils.DecodeJSON(req, &model)

			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && tt.errContains != "" {
				if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tt.errContains)) {
					t.Errorf("DecodeJSON() error = %v, should contain %v", err, tt.errContains)
				}
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	utils.InitValidator()

	tests := []struct {
		name    string
		model   TestModel
		wantErr bool
	}{
		{
			name: "Valid model",
			model: TestModel{
				Username: "john",
				Email:    "john@example.com",
				Password: "password123",
			},
			wantErr: false,
		},
		{
			name: "Missing username",
			model: TestModel{
				Email:    "john@example.com",
				Password: "password123",
			},
			wantErr: true,
		},
		{
			name: "Invalid email",
			model: TestModel{
				Username: "john",
				Email:    "not-an-email",
				Password: "password123",
			},
			wantErr: true,
		},
		{
			name: "Password too short",
			model: TestModel{
				Username: "john",
				Email:    "john@example.com",
				Password: "short",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidateStruct(tt.model)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	utils.InitValidator()

	model := TestModel{
		Username: "john",
		Email:    "not-an-email",
		Password: "password123",
	}

	err := utils.ValidateStruct(model)
	if err == nil {
		t.Fatal("ValidateStruct() should fail for an invalid email")
	}

	appErr, ok := err.(*utils.AppError)
	if !ok {
		t.Fatalf("ValidateStruct() error type = %T, want *utils.AppError", err)
	}
	if appErr.Field != "email" {
		t.Errorf("Field = %v, want json tag name email", appErr.Field)
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	utils.InitValidator()

	err := utils.ValidateStruct(TestModel{})
	if err == nil {
		t.Fatal("ValidateStruct() should fail for an empty model")
	}

	appErr, ok := err.(*utils.AppError)
	if !ok {
		t.Fatalf("ValidateStruct() error type = %T, want *utils.AppError", err)
	}
	if len(appErr.Details) < 2 {
		t.Errorf("Details should contain all failing fields, got %v", appErr.Details)
	}
}

func TestDecodeAndValidate(t *testing.T) {
	utils.InitValidator()

	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
	}{
		{
			name:        "Valid request",
			requestBody: `{"username":"john","email":"john@example.com","password":"password123"}`,
			wantErr:     false,
		},
		{
			name:        "Decodes but fails validation",
			requestBody: `{"username":"jo","email":"john@example.com","password":"password123"}`,
			wantErr:     true,
		},
		{
			name:        "Fails decoding",
			requestBody: `not json`,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(tt.requestBody))

			var model TestModel
			err := utils.DecodeAndValidate(req, &model)

			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeAndValidate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{
			name:  "Valid email",
			email: "user@example.com",
			want:  true,
		},
		{
			name:  "Missing domain",
			email: "user@",
			want:  false,
		},
		{
			name:  "Missing at sign",
			email: "userexample.com",
			want:  false,
		},
		{
			name:  "Empty string",
			email: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utils.IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%v) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{
			name:     "Valid username",
			username: "john42",
			wantErr:  false,
		},
		{
			name:     "Too short",
			username: "jo",
			wantErr:  true,
		},
		{
			name:     "Too long",
			username: strings.Repeat("a", 51),
			wantErr:  true,
		},
		{
			name:     "Non-alphanumeric characters",
			username: "john doe!",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%v) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Strong password",
			password: "Password123",
			wantErr:  false,
		},
		{
			name:     "Too short",
			password: "Pw1",
			wantErr:  true,
		},
		{
			name:     "Only lowercase letters",
			password: "passwordpassword",
			wantErr:  true,
		},
		{
			name:     "Lowercase with numbers and specials",
			password: "password123!",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
