package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 implements s3API over a map.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	f.puts++
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{}
	for i := range keys {
		out.Contents = append(out.Contents, types.Object{Key: &keys[i]})
	}
	return out, nil
}

func (f *fakeS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, obj := range in.Delete.Objects {
		delete(f.objects, *obj.Key)
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func TestS3StorePutGet(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := newS3Store(fake, "bucket", "frames")

	if err := store.Put(ctx, 7, []byte("frame-7")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := fake.objects["frames/00000000000000000007"]; !ok {
		t.Errorf("unexpected keys: %v", keysOf(fake))
	}

	frame, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(frame) != "frame-7" {
		t.Errorf("Get = %q", frame)
	}

	if _, err := store.Get(ctx, 8); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(8) err = %v, want ErrNotFound", err)
	}
}

func TestS3StoreRange(t *testing.T) {
	ctx := context.Background()
	store := newS3Store(newFakeS3(), "bucket", "")

	for seq := uint64(10); seq <= 13; seq++ {
		store.Put(ctx, seq, []byte{byte(seq)})
	}

	frames, err := store.Range(ctx, 10, 13)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("Range = %d frames, want 4", len(frames))
	}

	if _, err := store.Range(ctx, 9, 13); !errors.Is(err, ErrNotFound) {
		t.Errorf("Range over gap err = %v, want ErrNotFound", err)
	}
}

func TestS3StorePrune(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := newS3Store(fake, "bucket", "frames/")

	for seq := uint64(1); seq <= 6; seq++ {
		store.Put(ctx, seq, []byte{byte(seq)})
	}

	if err := store.Prune(ctx, 4); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	if len(fake.objects) != 3 {
		t.Errorf("objects after prune = %v", keysOf(fake))
	}
	if _, err := store.Get(ctx, 3); !errors.Is(err, ErrNotFound) {
		t.Error("seq 3 should be pruned")
	}
	if _, err := store.Get(ctx, 4); err != nil {
		t.Errorf("seq 4 should survive: %v", err)
	}
}

func keysOf(f *fakeS3) []string {
	var keys []string
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
