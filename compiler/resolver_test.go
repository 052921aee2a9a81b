package compiler

import (
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestDefaultArgumentResolver(t *testing.T) {
	id := uuid.MustParse("0196b0a0-1111-7aaa-8bbb-ccccddddeeee")
	lid := ulid.MustParse("01HZXW9GYGWXN4P3S8QRMT5KCJ")
	ts := time.UnixMilli(1700000000000).UTC()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"true", true, int64(1)},
		{"false", false, int64(0)},
		{"int", 42, int64(42)},
		{"int32", int32(-7), int64(-7)},
		{"uint16", uint16(9), int64(9)},
		{"uint64", uint64(10), uint64(10)},
		{"float32", float32(1.5), float64(1.5)},
		{"string", "abc", "abc"},
		{"bytes", []byte{0x01}, []byte{0x01}},
		{"time", ts, int64(1700000000000)},
		{"uuid", id, id.String()},
		{"ulid", lid, lid.String()},
		{"stringer", net.IPv4(10, 0, 0, 1), "10.0.0.1"},
	}

	r := DefaultArgumentResolver{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.in))
		})
	}
}

func TestDefaultArgumentResolverFallback(t *testing.T) {
	type opaque struct{ A int }
	got := DefaultArgumentResolver{}.Resolve(opaque{A: 3})
	assert.Equal(t, "{3}", got)
}
