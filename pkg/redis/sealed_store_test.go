package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sealedPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

var sealedKey = strings.Repeat("00", 32)

func TestNewSealedStoreValidation(t *testing.T) {
	_, err := NewSealedStore("p:", "zz")
	assert.Error(t, err)

	store, err := NewSealedStore("p:", sealedKey)
	assert.NoError(t, err)
	assert.NotNil(t, store)
}

func TestSealedStorePutGetDelete(t *testing.T) {
	srv := newMiniRedis(t)
	store, err := NewSealedStore("pending_registration:", sealedKey)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a@b.c", sealedPayload{Email: "a@b.c", Role: "tutor"}, time.Hour))

	raw, err := srv.Get("pending_registration:a@b.c")
	require.NoError(t, err)
	assert.NotContains(t, raw, "tutor")

	var got sealedPayload
	require.NoError(t, store.Get(ctx, "a@b.c", &got))
	assert.Equal(t, "tutor", got.Role)

	require.NoError(t, store.Delete(ctx, "a@b.c"))
	assert.ErrorIs(t, store.Get(ctx, "a@b.c", &got), ErrNotFound)
}

func TestSealedStore_CorruptValue(t *testing.T) {
	srv := newMiniRedis(t)
	store, err := NewSealedStore("p:", sealedKey)
	require.NoError(t, err)

	require.NoError(t, srv.Set("p:x", "not-hex"))
	var got sealedPayload
	assert.Error(t, store.Get(context.Background(), "x", &got))
}

func TestSealedStore_Hooks(t *testing.T) {
	store, err := NewSealedStore("p:", sealedKey)
	require.NoError(t, err)

	origSet, origGet, origDel, origMarshal := setSealedValue, getSealedValue, delSealedValue, marshalSealed
	t.Cleanup(func() {
		setSealedValue, getSealedValue, delSealedValue, marshalSealed = origSet, origGet, origDel, origMarshal
	})

	marshalSealed = func(interface{}) ([]byte, error) { return nil, errors.New("marshal failed") }
	assert.Error(t, store.Put(context.Background(), "k", sealedPayload{}, time.Minute))
	marshalSealed = origMarshal

	setSealedValue = func(context.Context, string, interface{}, time.Duration) error { return errors.New("set failed") }
	assert.Error(t, store.Put(context.Background(), "k", sealedPayload{}, time.Minute))

	getSealedValue = func(context.Context, string) (string, error) { return "", errors.New("conn reset") }
	var out sealedPayload
	err = store.Get(context.Background(), "k", &out)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	delSealedValue = func(context.Context, string) error { return errors.New("delete failed") }
	assert.Error(t, store.Delete(context.Background(), "k"))
}
