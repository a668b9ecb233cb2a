package defines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"unset", Unset{}, false},
		{"null", Null{}, false},
		{"nil interface", nil, false},
		{"true", Bool(true), true},
		{"false", Bool(false), false},
		{"zero int", Int(0), false},
		{"nonzero int", Int(2), true},
		{"negative int", Int(-1), true},
		{"zero float", Float(0), false},
		{"nonzero float", Float(0.5), true},
		{"empty string", String(""), false},
		{"nonempty string", String("x"), true},
		{"empty list", List{}, false},
		{"nonempty list", List{Int(1)}, true},
		{"empty struct", Struct{}, false},
		{"nonempty struct", Struct{"k": Int(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.v))
		})
	}
}

func TestUnsetDistinctFromNull(t *testing.T) {
	// The valueless-DEFINE sentinel must not compare equal to any
	// evaluation result, null included.
	var unset Value = Unset{}
	var null Value = Null{}
	assert.NotEqual(t, unset, null)
}

func TestToGoNested(t *testing.T) {
	v := Struct{
		"items": List{String("a"), Int(2)},
		"meta":  Struct{"ok": Bool(true)},
		"none":  Null{},
	}

	got := ToGo(v)
	obj, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"a", int64(2)}, obj["items"])
	assert.Equal(t, map[string]any{"ok": true}, obj["meta"])
	assert.Nil(t, obj["none"])
}

func TestFromGoNested(t *testing.T) {
	got, err := FromGo(map[string]any{
		"items": []any{"a", 2},
		"ratio": 0.5,
	})
	require.NoError(t, err)

	obj, ok := got.(Struct)
	require.True(t, ok)
	assert.Equal(t, List{String("a"), Int(2)}, obj["items"])
	assert.Equal(t, Float(0.5), obj["ratio"])
}

func TestFromGoRoundTrip(t *testing.T) {
	original := Struct{
		"name":    String("x"),
		"count":   Int(3),
		"enabled": Bool(false),
	}

	back, err := FromGo(ToGo(original))
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestFromGoRejectsUnsupported(t *testing.T) {
	_, err := FromGo(struct{}{})
	require.Error(t, err)

	_, err = FromGo([]any{func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list[0]")
}
