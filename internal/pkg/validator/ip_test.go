package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIPOrDefault(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "192.168.1.10", want: "192.168.1.10"},
		{in: "::1", want: "::1"},
		{in: "fe80::1%eth0", want: "fe80::1"},
		{in: "", want: "fallback"},
		{in: "not-an-ip", want: "fallback"},
		{in: "10.0.0.1:8080", want: "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, GetIPOrDefault(tt.in, "fallback"))
		})
	}
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "127.0.0.1", ClientIP("127.0.0.1"))
	assert.Equal(t, UnknownIP, ClientIP("garbage"))
}
