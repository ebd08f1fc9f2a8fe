package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestAPIKeyAuthenticator(t *testing.T) {
	a := NewAPIKeyAuthenticator("s3cret")

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing", "", ErrMissingKey},
		{"wrong", "nope", ErrInvalidKey},
		{"prefix", "s3cre", ErrInvalidKey},
		{"case", "S3CRET", ErrInvalidKey},
		{"padded", " s3cret", ErrInvalidKey},
		{"exact", "s3cret", nil},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("POST", "/", nil)
		if tc.header != "" {
			req.Header.Set(HeaderAPIKey, tc.header)
		}
		if err := a.Authenticate(req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestEmptySecretRejectsEverything(t *testing.T) {
	a := NewAPIKeyAuthenticator("")
	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set(HeaderAPIKey, "anything")
	if err := a.Authenticate(req); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("want ErrInvalidKey, got %v", err)
	}
}
