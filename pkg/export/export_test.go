package export_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/sprout/internal/demo"
	"github.com/vango-dev/sprout/pkg/export"
	"github.com/vango-dev/sprout/pkg/render"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"index.html", "index.html", false},
		{"todos//index.html", "todos/index.html", false},
		{"a/./b.css", "a/b.css", false},
		{"", "", true},
		{"/etc/passwd", "", true},
		{"../escape", "", true},
		{"a/../../b", "", true},
		{`a\b`, "", true},
	}
	for _, tt := range tests {
		got, err := export.CleanName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("CleanName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDiskStore_PutGet(t *testing.T) {
	dir := t.TempDir()
	store, err := export.NewDiskStore(dir, 0)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	content := []byte("<p>hi</p>")
	obj, err := store.Put(ctx, "docs/index.html", "", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if obj.Name != "docs/index.html" || obj.Size != int64(len(content)) {
		t.Errorf("object = %+v", obj)
	}
	if obj.ContentType != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", obj.ContentType)
	}
	if obj.URL != filepath.Join(dir, "docs", "index.html") {
		t.Errorf("URL = %q", obj.URL)
	}

	rc, got, err := store.Get(ctx, "docs/index.html")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if !bytes.Equal(data, content) {
		t.Errorf("content = %q", data)
	}
	if got.ContentType != obj.ContentType {
		t.Errorf("stored content type = %q", got.ContentType)
	}

	if _, _, err := store.Get(ctx, "missing.html"); !errors.Is(err, export.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := store.Put(ctx, "../x", "", strings.NewReader("x")); !errors.Is(err, export.ErrInvalidName) {
		t.Errorf("Put(../x) error = %v, want ErrInvalidName", err)
	}
}

func TestDiskStore_ListAndDelete(t *testing.T) {
	store, _ := export.NewDiskStore(t.TempDir(), 0)
	ctx := context.Background()
	for _, name := range []string{"b.css", "a/index.html", "a/about.html"} {
		if _, err := store.Put(ctx, name, "", strings.NewReader(name)); err != nil {
			t.Fatal(err)
		}
	}

	names := func(prefix string) []string {
		objs, err := store.List(ctx, prefix)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var out []string
		for _, o := range objs {
			out = append(out, o.Name)
		}
		return out
	}
	if diff := cmp.Diff([]string{"a/about.html", "a/index.html", "b.css"}, names("")); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a/about.html", "a/index.html"}, names("a/")); diff != "" {
		t.Errorf("List(a/) mismatch (-want +got):\n%s", diff)
	}

	if err := store.Delete(ctx, "a/index.html"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "a/index.html"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if diff := cmp.Diff([]string{"a/about.html", "b.css"}, names("")); diff != "" {
		t.Errorf("after delete (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "a", "index.html.meta")); !os.IsNotExist(err) {
		t.Error("sidecar should be deleted")
	}
}

func TestDiskStore_MaxSize(t *testing.T) {
	store, _ := export.NewDiskStore(t.TempDir(), 4)
	ctx := context.Background()

	if _, err := store.Put(ctx, "big.txt", "", strings.NewReader("12345")); !errors.Is(err, export.ErrTooLarge) {
		t.Fatalf("Put error = %v, want ErrTooLarge", err)
	}
	objs, _ := store.List(ctx, "")
	if len(objs) != 0 {
		t.Errorf("oversized object left behind: %+v", objs)
	}
	if _, err := store.Put(ctx, "ok.txt", "", strings.NewReader("1234")); err != nil {
		t.Errorf("Put at limit: %v", err)
	}
}

// fakeS3 is an in-memory bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	puts    []*s3.PutObjectInput
}

type fakeObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: make(map[string]fakeObject)} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = fakeObject{data: data, contentType: aws.ToString(in.ContentType), modified: time.Now()}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(o.data)),
		ContentType:   aws.String(o.contentType),
		ContentLength: aws.Int64(int64(len(o.data))),
		LastModified:  aws.Time(o.modified),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		o := f.objects[k]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(int64(len(o.data))),
			LastModified: aws.Time(o.modified),
		})
	}
	return out, nil
}

func TestS3Store(t *testing.T) {
	fake := newFakeS3()
	store := export.NewS3Store(fake, "site", "v1")
	ctx := context.Background()

	obj, err := store.Put(ctx, "index.html", "", strings.NewReader("<h1>x</h1>"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if obj.URL != "s3://site/v1/index.html" || obj.Size != 10 {
		t.Errorf("object = %+v", obj)
	}
	in := fake.puts[0]
	if aws.ToString(in.Bucket) != "site" || aws.ToString(in.ContentType) != "text/html; charset=utf-8" {
		t.Errorf("PutObject input bucket=%q type=%q", aws.ToString(in.Bucket), aws.ToString(in.ContentType))
	}

	rc, got, err := store.Get(ctx, "index.html")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "<h1>x</h1>" || got.Size != 10 {
		t.Errorf("Get = %q %+v", data, got)
	}
	if _, _, err := store.Get(ctx, "nope.html"); !errors.Is(err, export.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	_, _ = store.Put(ctx, "app.css", "", strings.NewReader("body{}"))
	objs, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 2 || objs[0].Name != "app.css" || objs[1].Name != "index.html" {
		t.Errorf("List = %+v", objs)
	}

	if err := store.Delete(ctx, "app.css"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if objs, _ := store.List(ctx, ""); len(objs) != 1 {
		t.Errorf("List after delete = %+v", objs)
	}

	if _, err := store.WithMaxSize(2).Put(ctx, "big.txt", "", strings.NewReader("abc")); !errors.Is(err, export.ErrTooLarge) {
		t.Errorf("Put error = %v, want ErrTooLarge", err)
	}
}

func TestPages(t *testing.T) {
	store, _ := export.NewDiskStore(t.TempDir(), 0)
	c := demo.Counter{Count: 3}
	todos := demo.Todos{Items: []demo.Item{{ID: 1, Text: "write docs"}}, NextID: 2}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	objs, err := export.Pages(context.Background(), store, []export.Page[demo.CounterMsg]{
		{Name: "index.html", Data: render.PageData[demo.CounterMsg]{Title: "Counter", Body: demo.ViewCounter(&c)}},
	}, export.Options{Logger: logger})
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	more, err := export.Pages(context.Background(), store, []export.Page[demo.TodoMsg]{
		{Name: "todos/index.html", Data: render.PageData[demo.TodoMsg]{Title: "Todos", Body: demo.ViewTodos(&todos)}},
	}, export.Options{Logger: logger})
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	objs = append(objs, more...)
	if len(objs) != 2 {
		t.Fatalf("objects = %+v", objs)
	}

	read := func(name string) string {
		rc, _, err := store.Get(context.Background(), name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return string(b)
	}
	index := read("index.html")
	for _, want := range []string{"<title>Counter</title>", `<span class="count">3</span>`} {
		if !strings.Contains(index, want) {
			t.Errorf("index.html missing %q:\n%s", want, index)
		}
	}
	if strings.Contains(index, "client.js") {
		t.Error("exported page loads the client")
	}
	if page := read("todos/index.html"); !strings.Contains(page, "write docs") {
		t.Errorf("todos page:\n%s", page)
	}
}

func TestPagesStopsOnError(t *testing.T) {
	store, _ := export.NewDiskStore(t.TempDir(), 0)
	objs, err := export.Pages(context.Background(), store, []export.Page[demo.CounterMsg]{
		{Name: "ok.html"},
		{Name: "../bad.html"},
		{Name: "never.html"},
	}, export.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if !errors.Is(err, export.ErrInvalidName) {
		t.Fatalf("error = %v, want ErrInvalidName", err)
	}
	if len(objs) != 1 || objs[0].Name != "ok.html" {
		t.Errorf("objects = %+v", objs)
	}
}
