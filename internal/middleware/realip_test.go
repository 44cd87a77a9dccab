// AngelaMos | 2026
// realip_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrustedProxies(t *testing.T) {
	t.Parallel()

	prefixes, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.5 ", "", "::1"})
	require.NoError(t, err)
	require.Len(t, prefixes, 3)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "192.168.1.5/32", prefixes[1].String())
	assert.Equal(t, "::1/128", prefixes[2].String())

	for _, bad := range []string{"10.0.0.0/99", "proxy.internal", "1.2.3"} {
		_, err := ParseTrustedProxies([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestTrustedRealIP(t *testing.T) {
	t.Parallel()

	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		trusted    bool
		remoteAddr string
		xff        string
		xRealIP    string
		want       string
	}{
		{
			name:       "no trusted proxies configured",
			remoteAddr: "203.0.113.9:4000",
			xff:        "198.51.100.7",
			want:       "203.0.113.9",
		},
		{
			name:       "untrusted peer",
			trusted:    true,
			remoteAddr: "203.0.113.9:4000",
			xff:        "198.51.100.7",
			want:       "203.0.113.9",
		},
		{
			name:       "trusted peer single hop",
			trusted:    true,
			remoteAddr: "10.1.2.3:4000",
			xff:        "198.51.100.7",
			want:       "198.51.100.7",
		},
		{
			name:       "client-supplied prefix is skipped",
			trusted:    true,
			remoteAddr: "10.1.2.3:4000",
			xff:        "6.6.6.6, 198.51.100.7, 10.9.9.9",
			want:       "198.51.100.7",
		},
		{
			name:       "real ip header",
			trusted:    true,
			remoteAddr: "10.1.2.3:4000",
			xRealIP:    "198.51.100.8",
			want:       "198.51.100.8",
		},
		{
			name:       "garbage hop keeps peer",
			trusted:    true,
			remoteAddr: "10.1.2.3:4000",
			xff:        "not-an-ip",
			want:       "10.1.2.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			proxies := trusted
			if !tt.trusted {
				proxies = nil
			}

			var seen string
			handler := TrustedRealIP(proxies)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = ClientIP(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, seen)
		})
	}
}
