package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		trusted    bool
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{name: "forwarded header ignored by default", remoteAddr: "10.0.0.1:1234", headers: map[string]string{"X-Forwarded-For": "203.0.113.7"}, want: "10.0.0.1"},
		{name: "real ip header ignored by default", remoteAddr: "10.0.0.1:1234", headers: map[string]string{"X-Real-IP": "198.51.100.4"}, want: "10.0.0.1"},
		{name: "trusted proxy hop wins", trusted: true, remoteAddr: "10.0.0.1:1234", headers: map[string]string{"X-Forwarded-For": "6.6.6.6, 203.0.113.7"}, want: "203.0.113.7"},
		{name: "trusted single hop", trusted: true, remoteAddr: "10.0.0.1:1234", headers: map[string]string{"X-Forwarded-For": " 203.0.113.8 "}, want: "203.0.113.8"},
		{name: "trusted real ip header", trusted: true, remoteAddr: "10.0.0.1:1234", headers: map[string]string{"X-Real-IP": "198.51.100.4"}, want: "198.51.100.4"},
		{name: "trusted without headers uses peer", trusted: true, remoteAddr: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "ipv4 remote addr", remoteAddr: "192.0.2.10:5555", want: "192.0.2.10"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "remote addr without port", remoteAddr: "192.0.2.11", want: "192.0.2.11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/screen", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(req, tt.trusted))
		})
	}
}

func TestClientIPFromRequestUsesLastForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/screen", nil)
	req.Header.Add("X-Forwarded-For", "6.6.6.6")
	req.Header.Add("X-Forwarded-For", "203.0.113.9")

	assert.Equal(t, "203.0.113.9", ClientIPFromRequest(req, true))
}

func TestClientMetadata(t *testing.T) {
	var gotIP, gotUA string
	h := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = GetClientIP(r.Context())
		gotUA = GetUserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "192.0.2.1:9999"
	req.Header.Set("User-Agent", "screen-test/1.0")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.1", gotIP)
	assert.Equal(t, "screen-test/1.0", gotUA)
}

func TestProxiedClientMetadata(t *testing.T) {
	var plainIP, proxiedIP string
	plain := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plainIP = GetClientIP(r.Context())
	}))
	proxied := ProxiedClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxiedIP = GetClientIP(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.5:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.20")
	plain.ServeHTTP(httptest.NewRecorder(), req)
	proxied.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "10.0.0.5", plainIP)
	assert.Equal(t, "203.0.113.20", proxiedIP)
}
