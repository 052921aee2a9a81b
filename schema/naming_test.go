package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User", "user"},
		{"UserProfile", "user_profile"},
		{"createdAt", "created_at"},
		{"HTTPServer", "http_server"},
		{"ParseURL", "parse_url"},
		{"ID", "id"},
		{"already_snake", "already_snake"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SnakeCase(tt.in), tt.in)
	}
}

func TestTableName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User", "users"},
		{"UserProfile", "user_profiles"},
		{"Person", "people"},
		{"Category", "categories"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TableName(tt.in), tt.in)
	}
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "created_at", ColumnName("CreatedAt"))
	assert.Equal(t, "email", ColumnName("Email"))
}
