package images

import (
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
)

// MaxImages is the hard cap on staged images per form.
const MaxImages = 10

// ErrTooManyImages rejects a whole batch that would exceed the cap.
var ErrTooManyImages = errors.New("You can upload up to 10 images.")

// File is a raw uploaded file waiting to be handed to the upload
// collaborator at submit time.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int { return len(f.Data) }

// StagedImage pairs a displayable preview with the raw file. The queue
// owns the file until Drain transfers it to the caller.
type StagedImage struct {
	Preview string `json:"preview"`
	File    File   `json:"-"`
}

// Queue stages uploaded files into previewable images, bounded at
// MaxImages. Batches are all-or-nothing: a batch that would exceed the
// cap is rejected without staging any of its files.
type Queue struct {
	mu       sync.Mutex
	reserved int
	images   []StagedImage
	publish  func([]StagedImage)
}

// NewQueue creates a staging queue. publish is invoked with the updated
// image list after every successful batch; nil is allowed.
func NewQueue(publish func([]StagedImage)) *Queue {
	if publish == nil {
		publish = func([]StagedImage) {}
	}
	return &Queue{publish: publish}
}

// Stage reads a batch of files into previews and appends them in
// selection order. Files within the batch are encoded concurrently; the
// resulting list order still matches the order they were selected in.
func (q *Queue) Stage(files []File) error {
	if len(files) == 0 {
		return nil
	}

	q.mu.Lock()
	if len(q.images)+q.reserved+len(files) > MaxImages {
		q.mu.Unlock()
		return ErrTooManyImages
	}
	q.reserved += len(files)
	q.mu.Unlock()

	staged := make([]StagedImage, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(slot int, file File) {
			defer wg.Done()
			staged[slot] = StagedImage{Preview: previewDataURI(file), File: file}
		}(i, f)
	}
	wg.Wait()

	q.mu.Lock()
	q.reserved -= len(files)
	q.images = append(q.images, staged...)
	snapshot := append([]StagedImage(nil), q.images...)
	q.mu.Unlock()

	q.publish(snapshot)
	return nil
}

// Images returns a copy of the current staged list.
func (q *Queue) Images() []StagedImage {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]StagedImage(nil), q.images...)
}

// Count returns the number of staged images.
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.images)
}

// Drain removes all staged images and returns their raw files,
// transferring ownership to the caller. files[i] corresponds to the
// i-th staged image.
func (q *Queue) Drain() []File {
	q.mu.Lock()
	images := q.images
	q.images = nil
	q.mu.Unlock()

	files := make([]File, len(images))
	for i, img := range images {
		files[i] = img.File
	}
	q.publish(nil)
	return files
}

// Clear drops all staged images without transferring ownership.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.images = nil
	q.mu.Unlock()
	q.publish(nil)
}

func previewDataURI(f File) string {
	contentType := f.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(f.Data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}
