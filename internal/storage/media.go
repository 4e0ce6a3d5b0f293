package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidName is returned for names that would escape the media directory.
var ErrInvalidName = errors.New("invalid media file name")

// MediaStore keeps uploaded attachment bytes as plain files in one directory.
type MediaStore struct {
	dir     string
	allowed map[string]struct{}
}

// NewMediaStore creates dir if needed. Extensions are compared lowercase
// without the leading dot.
func NewMediaStore(dir string, allowedExtensions []string) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &MediaStore{dir: dir, allowed: allowed}, nil
}

// Dir returns the directory files are written to.
func (s *MediaStore) Dir() string { return s.dir }

// Allowed reports whether filename carries an extension from the allow-list.
func (s *MediaStore) Allowed(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	_, ok := s.allowed[strings.ToLower(filename[i+1:])]
	return ok
}

// Save copies src into the store under name and returns the coarse file
// type, e.g. "image". declaredType is the client's content type; when it is
// missing or generic the first bytes are sniffed instead.
func (s *MediaStore) Save(name, declaredType string, src io.Reader) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}

	br := bufio.NewReaderSize(src, 3072)
	head, err := br.Peek(3072)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("read media file: %w", err)
	}
	fileType := FileType(declaredType, head)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	if _, err := io.Copy(dst, br); err != nil {
		dst.Close()
		_ = s.Remove(name) // 不留半截文件
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close media file: %w", err)
	}
	return fileType, nil
}

// Path resolves a stored name to its location on disk.
func (s *MediaStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Open opens a stored file for reading.
func (s *MediaStore) Open(name string) (*os.File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes a stored file; a missing file is not an error.
func (s *MediaStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// FileType returns the first segment of a MIME type ("image/png" -> "image").
func FileType(declaredType string, head []byte) string {
	ct := strings.TrimSpace(strings.ToLower(declaredType))
	if ct == "" || ct == "application/octet-stream" {
		if len(head) == 0 {
			return "application"
		}
		ct = mimetype.Detect(head).String()
	}
	if i := strings.IndexAny(ct, "/;"); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to ASCII letters, digits, '_', '.' and '-'.
// Path separators become spaces, whitespace runs collapse to '_', and
// leading or trailing dots and underscores are stripped.
func SecureFilename(name string) string {
	name = asciiFold(name)
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

func asciiFold(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}
