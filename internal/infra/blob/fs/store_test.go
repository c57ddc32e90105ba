package fs

import (
	"context"
	"io"
	"strings"
	"testing"

	"rostercore/internal/blob"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	info, err := store.Put(ctx, "out/roster.json", strings.NewReader(`{"students":[]}`), blob.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size == 0 || info.ETag == "" {
		t.Fatalf("info = %+v", info)
	}
	got, rc, err := store.Get(ctx, "out/roster.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	if got.ContentType != "application/json" {
		t.Fatalf("content type = %q", got.ContentType)
	}
	payload, _ := io.ReadAll(rc)
	if string(payload) != `{"students":[]}` {
		t.Fatalf("payload = %q", payload)
	}
}

func TestPutOverwrites(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", strings.NewReader("v1"), blob.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k", strings.NewReader("v2"), blob.PutOptions{}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	_, rc, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	payload, _ := io.ReadAll(rc)
	if string(payload) != "v2" {
		t.Fatalf("payload = %q, want v2", payload)
	}
}

func TestKeySanitization(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	for _, key := range []string{"", "/abs", "../escape", "a/../../b"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), blob.PutOptions{}); err == nil {
			t.Errorf("key %q accepted, want rejection", key)
		}
	}
}

func TestDeleteAndList(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, _ = store.Put(ctx, "out/a.json", strings.NewReader("a"), blob.PutOptions{})
	_, _ = store.Put(ctx, "out/b.json", strings.NewReader("b"), blob.PutOptions{})
	_, _ = store.Put(ctx, "other/c.json", strings.NewReader("c"), blob.PutOptions{})

	infos, err := store.List(ctx, "out/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "out/a.json" || infos[1].Key != "out/b.json" {
		t.Fatalf("listed = %+v", infos)
	}

	existed, err := store.Delete(ctx, "out/a.json")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	existed, err = store.Delete(ctx, "out/a.json")
	if err != nil || existed {
		t.Fatalf("second delete: existed=%v err=%v", existed, err)
	}
	if _, err := store.Head(ctx, "out/a.json"); err == nil {
		t.Fatal("head after delete should fail")
	}
}
