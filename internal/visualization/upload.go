package visualization

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/username/alarm-api/internal/apperr"
)

// DefaultMaxBytes is the upload ceiling when none is configured.
const DefaultMaxBytes int64 = 5 << 20

// sniffLen is how much of the content http.DetectContentType looks at.
const sniffLen = 512

var allowedImages = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Upload is an image received from a client.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// checkUpload validates name, size and content of u. It returns the lower-cased
// extension and a reader that yields the full content again.
func checkUpload(u Upload, maxBytes int64) (string, io.Reader, error) {
	ext := strings.ToLower(filepath.Ext(u.Filename))
	want, ok := allowedImages[ext]
	if !ok {
		return "", nil, apperr.Invalid("image", "only jpg, jpeg and png files are allowed")
	}
	if u.Size > maxBytes {
		return "", nil, apperr.Invalid("image", fmt.Sprintf("must not exceed %d bytes", maxBytes))
	}
	if u.Content == nil {
		return "", nil, apperr.Invalid("image", "is required")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(u.Content, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", nil, apperr.Invalid("image", "is empty")
	}
	if got := http.DetectContentType(head); got != want {
		return "", nil, apperr.Invalid("image", "content is not a jpg or png image")
	}

	// the declared size can lie; cap what is actually read
	body := io.MultiReader(bytes.NewReader(head), u.Content)
	return ext, &limitedReader{r: io.LimitReader(body, maxBytes+1), max: maxBytes}, nil
}

// newFilename is a time prefix plus a random part, keeping the extension.
func newFilename(ext string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

var errTooLarge = apperr.Invalid("image", "file too large")

type limitedReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.max {
		return n, errTooLarge
	}
	return n, err
}
