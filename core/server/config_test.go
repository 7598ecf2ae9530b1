package server_test

import (
	"testing"

	"s3-utils/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name string
		mb   int
		want int
	}{
		{"Configured", 4, 4 * 1024 * 1024},
		{"Zero", 0, 32 * 1024 * 1024},
		{"Negative", -1, 32 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{MaxUploadMB: tt.mb}
			assert.Equal(t, tt.want, c.BodyLimit())
		})
	}
}
