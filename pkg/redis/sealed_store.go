package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tutorlink.backend/pkg/crypto"
)

// ErrNotFound is returned when a sealed key is absent or expired
var ErrNotFound = errors.New("sealed value not found")

// SealedStore keeps JSON values in Redis encrypted at rest
type SealedStore struct {
	prefix string
	sealer *crypto.Sealer
}

var (
	setSealedValue  = Set
	getSealedValue  = Get
	delSealedValue  = Del
	marshalSealed   = json.Marshal
	unmarshalSealed = json.Unmarshal
)

// NewSealedStore creates a store whose keys are namespaced by prefix
func NewSealedStore(prefix, encryptionKeyHex string) (*SealedStore, error) {
	sealer, err := crypto.NewSealer(encryptionKeyHex)
	if err != nil {
		return nil, err
	}
	return &SealedStore{prefix: prefix, sealer: sealer}, nil
}

// Put encrypts v and stores it under key with the given expiration
func (s *SealedStore) Put(ctx context.Context, key string, v interface{}, expiration time.Duration) error {
	raw, err := marshalSealed(v)
	if err != nil {
		return err
	}

	sealed, err := s.sealer.Seal(raw)
	if err != nil {
		return err
	}

	return setSealedValue(ctx, s.prefix+key, sealed, expiration)
}

// Get loads and decrypts the value under key into out
func (s *SealedStore) Get(ctx context.Context, key string, out interface{}) error {
	sealed, err := getSealedValue(ctx, s.prefix+key)
	if err != nil {
		if IsNil(err) {
			return ErrNotFound
		}
		return err
	}

	raw, err := s.sealer.Open(sealed)
	if err != nil {
		return err
	}

	return unmarshalSealed(raw, out)
}

// Delete removes the value under key
func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return delSealedValue(ctx, s.prefix+key)
}
