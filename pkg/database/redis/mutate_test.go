package redis

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
)

// TestValueValidate 值形状校验，不合法的值在任何网络调用前被拒绝
func TestValueValidate(t *testing.T) {
	tests := []struct {
		name    string
		value   *Value
		wantErr bool
	}{
		{name: "nil value", value: nil, wantErr: true},
		{name: "empty string is valid", value: &Value{Type: TypeString}, wantErr: false},
		{name: "string", value: &Value{Type: TypeString, String: "v"}, wantErr: false},
		{name: "hash", value: &Value{Type: TypeHash, Hash: map[string]string{"f": "v"}}, wantErr: false},
		{name: "empty hash", value: &Value{Type: TypeHash}, wantErr: true},
		{name: "list", value: &Value{Type: TypeList, List: []string{"a"}}, wantErr: false},
		{name: "empty list", value: &Value{Type: TypeList}, wantErr: true},
		{name: "set", value: &Value{Type: TypeSet, Set: []string{"a"}}, wantErr: false},
		{name: "empty set", value: &Value{Type: TypeSet}, wantErr: true},
		{name: "zset", value: &Value{Type: TypeZSet, ZSet: []ZMember{{Member: "a", Score: 1}}}, wantErr: false},
		{name: "empty zset", value: &Value{Type: TypeZSet}, wantErr: true},
		{
			name:    "stream",
			value:   &Value{Type: TypeStream, Stream: []StreamEntry{{Fields: map[string]string{"f": "v"}}}},
			wantErr: false,
		},
		{name: "empty stream", value: &Value{Type: TypeStream}, wantErr: true},
		{
			name:    "stream entry without fields",
			value:   &Value{Type: TypeStream, Stream: []StreamEntry{{}}},
			wantErr: true,
		},
		{name: "unknown type", value: &Value{Type: KeyType("bitmap")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfigInvalid) {
				t.Errorf("validate() error = %v, want ErrConfigInvalid", err)
			}
		})
	}
}

// TestUpdateKeyStreamUnsupported stream 条目不可变，更新在任何网络调用前被拒绝
func TestUpdateKeyStreamUnsupported(t *testing.T) {
	h := newFakeHandle(&fakeStoreClient{})
	value := &Value{Type: TypeStream, Stream: []StreamEntry{{Fields: map[string]string{"f": "v"}}}}

	err := h.UpdateKey(context.Background(), 0, "events", value)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("UpdateKey() error = %v, want ErrUnsupported", err)
	}
}

// TestMutateRejectsInvalidValue 创建/更新对非法值直接拒绝
func TestMutateRejectsInvalidValue(t *testing.T) {
	ctx := context.Background()
	h := newFakeHandle(&fakeStoreClient{})

	if err := h.CreateKey(ctx, 0, "k", nil); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("CreateKey(nil value) error = %v, want ErrConfigInvalid", err)
	}
	if err := h.UpdateKey(ctx, 0, "k", &Value{Type: TypeHash}); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("UpdateKey(empty hash) error = %v, want ErrConfigInvalid", err)
	}
}
