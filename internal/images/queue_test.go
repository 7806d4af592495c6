package images

import (
	"fmt"
	"strings"
	"testing"
)

func makeFiles(n int, prefix string) []File {
	files := make([]File, n)
	for i := range files {
		files[i] = File{
			Name:        fmt.Sprintf("%s-%d.png", prefix, i),
			ContentType: "image/png",
			Data:        []byte{0x89, 0x50, byte(i)},
		}
	}
	return files
}

func TestStagePreservesSelectionOrder(t *testing.T) {
	var published [][]StagedImage
	q := NewQueue(func(imgs []StagedImage) {
		published = append(published, imgs)
	})

	if err := q.Stage(makeFiles(5, "batch")); err != nil {
		t.Fatalf("stage: %v", err)
	}

	imgs := q.Images()
	if len(imgs) != 5 {
		t.Fatalf("expected 5 staged, got %d", len(imgs))
	}
	for i, img := range imgs {
		want := fmt.Sprintf("batch-%d.png", i)
		if img.File.Name != want {
			t.Fatalf("position %d holds %q, want %q", i, img.File.Name, want)
		}
		if !strings.HasPrefix(img.Preview, "data:image/png;base64,") {
			t.Fatalf("unexpected preview %q", img.Preview)
		}
	}
	if len(published) != 1 || len(published[0]) != 5 {
		t.Fatalf("expected one publish with 5 images")
	}
}

func TestStageRejectsBatchOverCap(t *testing.T) {
	q := NewQueue(nil)
	if err := q.Stage(makeFiles(8, "a")); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if err := q.Stage(makeFiles(4, "b")); err != ErrTooManyImages {
		t.Fatalf("expected ErrTooManyImages, got %v", err)
	}
	// nothing from the rejected batch is staged
	if q.Count() != 8 {
		t.Fatalf("expected exactly 8 staged, got %d", q.Count())
	}
	// a fitting batch still goes through afterwards
	if err := q.Stage(makeFiles(2, "c")); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if q.Count() != 10 {
		t.Fatalf("expected 10 staged, got %d", q.Count())
	}
	if err := q.Stage(makeFiles(1, "d")); err != ErrTooManyImages {
		t.Fatalf("expected cap reached, got %v", err)
	}
}

func TestDrainTransfersOwnership(t *testing.T) {
	q := NewQueue(nil)
	if err := q.Stage(makeFiles(3, "f")); err != nil {
		t.Fatalf("stage: %v", err)
	}

	files := q.Drain()
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	for i, f := range files {
		if f.Name != fmt.Sprintf("f-%d.png", i) {
			t.Fatalf("file order broken at %d: %q", i, f.Name)
		}
	}
	if q.Count() != 0 {
		t.Fatalf("expected queue drained")
	}
}

func TestClear(t *testing.T) {
	q := NewQueue(nil)
	if err := q.Stage(makeFiles(2, "f")); err != nil {
		t.Fatalf("stage: %v", err)
	}
	q.Clear()
	if q.Count() != 0 {
		t.Fatalf("expected cleared queue")
	}
}

func TestStageEmptyBatch(t *testing.T) {
	published := 0
	q := NewQueue(func([]StagedImage) { published++ })
	if err := q.Stage(nil); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if published != 0 {
		t.Fatalf("empty batch must not publish")
	}
}

func TestPreviewDetectsContentType(t *testing.T) {
	q := NewQueue(nil)
	// JPEG magic bytes, no declared content type
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00}
	if err := q.Stage([]File{{Name: "x.jpg", Data: jpeg}}); err != nil {
		t.Fatalf("stage: %v", err)
	}
	imgs := q.Images()
	if !strings.HasPrefix(imgs[0].Preview, "data:image/jpeg;base64,") {
		t.Fatalf("unexpected preview %q", imgs[0].Preview)
	}
}
