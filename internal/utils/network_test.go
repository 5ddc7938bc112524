package utils_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Innei/mx-gobackend/internal/utils"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "1.2.3.4:51234",
			want:       "1.2.3.4",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "5.6.7.8"},
			want:       "5.6.7.8",
		},
		{
			name:       "x-forwarded-for chain takes first",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.2, 10.0.0.1"},
			want:       "5.6.7.8",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "9.8.7.6"},
			want:       "9.8.7.6",
		},
		{
			name:       "forwarded-for beats real-ip",
			remoteAddr: "10.0.0.1:80",
			headers: map[string]string{
				"X-Forwarded-For": "5.6.7.8",
				"X-Real-IP":       "9.8.7.6",
			},
			want: "5.6.7.8",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "1.2.3.4",
			want:       "1.2.3.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for key, value := range tt.headers {
				r.Header.Set(key, value)
			}

			assert.Equal(t, tt.want, utils.ClientIP(r))
		})
	}
}
