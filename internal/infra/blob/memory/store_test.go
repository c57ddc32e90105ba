package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"rostercore/internal/blob"
)

func TestPutGetHeadDelete(t *testing.T) {
	store := New()
	ctx := context.Background()
	if store.Driver() != blob.DriverMemory {
		t.Fatalf("driver = %s", store.Driver())
	}
	info, err := store.Put(ctx, "k", strings.NewReader("payload"), blob.PutOptions{ContentType: "text/plain", Metadata: map[string]string{"a": "b"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 7 {
		t.Fatalf("size = %d", info.Size)
	}
	head, err := store.Head(ctx, "k")
	if err != nil || head.Metadata["a"] != "b" {
		t.Fatalf("head: %+v %v", head, err)
	}
	_, rc, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	payload, _ := io.ReadAll(rc)
	if string(payload) != "payload" {
		t.Fatalf("payload = %q", payload)
	}
	existed, err := store.Delete(ctx, "k")
	if err != nil || !existed {
		t.Fatalf("delete: %v %v", existed, err)
	}
	if _, err := store.Head(ctx, "k"); err == nil {
		t.Fatal("head after delete should fail")
	}
}

func TestOverwriteAndListPrefix(t *testing.T) {
	store := New()
	ctx := context.Background()
	_, _ = store.Put(ctx, "out/a", strings.NewReader("v1"), blob.PutOptions{})
	_, _ = store.Put(ctx, "out/a", strings.NewReader("longer v2"), blob.PutOptions{})
	_, _ = store.Put(ctx, "elsewhere/b", strings.NewReader("x"), blob.PutOptions{})

	infos, err := store.List(ctx, "out/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 || infos[0].Size != int64(len("longer v2")) {
		t.Fatalf("listed = %+v", infos)
	}
}
