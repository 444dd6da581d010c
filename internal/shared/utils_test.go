package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestExtractSessionToken(t *testing.T) {
	validToken := strings.Repeat("a", SessionTokenLength)

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"missing header", "", "", ErrMissingAuth},
		{"not bearer", "Basic " + validToken, "", ErrInvalidFormat},
		{"too many parts", "Bearer " + validToken + " extra", "", ErrInvalidFormat},
		{"wrong length", "Bearer short", "", ErrInvalidTokenLen},
		{"valid", "Bearer " + validToken, validToken, nil},
		{"case insensitive scheme", "bearer " + validToken, validToken, nil},
	}

	e := echo.New()
	for _, test := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if test.header != "" {
			req.Header.Set("Authorization", test.header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		got, err := ExtractSessionToken(c)
		if err != test.wantErr {
			t.Errorf("%s: expected error %v, got %v", test.name, test.wantErr, err)
		}
		if got != test.want {
			t.Errorf("%s: expected token %q, got %q", test.name, test.want, got)
		}
	}
}
