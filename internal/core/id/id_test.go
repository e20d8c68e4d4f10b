package id

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want ID
	}{
		{"nil", nil, ""},
		{"float whole", float64(12), "12"},
		{"float fraction", 1.5, "1.5"},
		{"int", 7, "7"},
		{"int64", int64(9), "9"},
		{"json number", json.Number("42"), "42"},
		{"mongo id", " 65a1f0c2e4b0 ", "65a1f0c2e4b0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAny(tt.in))
		})
	}
}

func TestNext(t *testing.T) {
	assert.Equal(t, ID("6"), Next([]ID{"1", "2", "5"}))
	assert.Equal(t, ID("1"), Next(nil))
	assert.Equal(t, ID("4"), Next([]ID{"3", "65a1f0c2e4b0", ""}))
}

func TestInt(t *testing.T) {
	n, ok := ID("17").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(17), n)

	_, ok = ID("abc").Int()
	assert.False(t, ok)
	assert.True(t, ID("").IsZero())
}

func TestSet(t *testing.T) {
	s := Set{"1": {}, "3": {}}

	assert.True(t, s.Has("1"))
	assert.False(t, s.Has("2"))
	assert.ElementsMatch(t, []ID{"1", "3"}, s.Slice())
}
