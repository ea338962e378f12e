package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"induchat/internal/models"
)

var errFakeMiss = errors.New("key missing")

type fakeRedis struct {
	values map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	default:
		return errors.New("unsupported value type")
	}
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", errFakeMiss
	}
	return v, nil
}

func (f *fakeRedis) Keys(ctx context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range f.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func newTestRedisStore() (*RedisStore, *fakeRedis) {
	client := newFakeRedis()
	st := NewRedisStore(client, 0, func(err error) bool { return errors.Is(err, errFakeMiss) })
	return st, client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	st, _ := newTestRedisStore()
	ctx := context.Background()

	rec := NewRecord("conv42", []models.Turn{{Role: models.RoleUser, Content: "hi"}})
	ref, err := st.Save(ctx, rec)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(ref, "conversation:conv42:") {
		t.Fatalf("unexpected reference %q", ref)
	}

	loaded, err := st.Load(ctx, ref)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ConversationID != "conv42" || len(loaded.Turns) != 1 {
		t.Fatalf("loaded record does not match: %+v", loaded)
	}
}

func TestRedisStoreLoadMissIsNotFound(t *testing.T) {
	st, _ := newTestRedisStore()
	_, err := st.Load(context.Background(), "conversation:ghost:20240101_000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// A reference without the key prefix is rejected up front.
	_, err = st.Load(context.Background(), "something-else")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a foreign reference, got %v", err)
	}
}

func TestRedisStoreList(t *testing.T) {
	st, client := newTestRedisStore()
	ctx := context.Background()

	for _, id := range []string{"b", "a"} {
		if _, err := st.Save(ctx, NewRecord(id, nil)); err != nil {
			t.Fatal(err)
		}
	}
	client.values["unrelated:key"] = "x"

	refs, err := st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected the 2 conversation keys, got %v", refs)
	}
	if refs[0] > refs[1] {
		t.Fatalf("references must be sorted, got %v", refs)
	}
}
