package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// UploadDir — подпапка внутри публичного хранилища
const UploadDir = "uploads"

// ErrUnsupportedImage — расширение не из белого списка или содержимое не картинка
var ErrUnsupportedImage = errors.New("unsupported image format")

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

var allowedMIME = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// sniffLimit — сколько байт читаем для определения типа
const sniffLimit = 3072

// Upload — файл из запроса (или из теста)
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

func FromFileHeaders(headers []*multipart.FileHeader) []Upload {
	out := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		out = append(out, Upload{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return out
}

func FromBytes(name string, b []byte) Upload {
	return Upload{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b)), nil },
	}
}

// IsImage проверяет только расширение, как и раньше в форме продавца.
// Содержимое проверяет IsImageContent.
func IsImage(name string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(name))]
}

// IsImageContent определяет тип по первым байтам (jpeg, png, webp, gif)
func IsImageContent(head []byte) bool {
	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		for _, allowed := range allowedMIME {
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}

// Store — картинки на локальном диске, раздаются как /storage/<path>
type Store struct {
	root    string
	baseURL string
}

func NewStore(root, appURL string) *Store {
	return &Store{root: root, baseURL: strings.TrimRight(appURL, "/")}
}

func (s *Store) Root() string { return s.root }

// Save пишет файл под случайным именем и возвращает относительный путь "uploads/<uuid>.<ext>"
func (s *Store) Save(u Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(u.Name))
	if !allowedExt[ext] {
		return "", ErrUnsupportedImage
	}
	if err := os.MkdirAll(filepath.Join(s.root, UploadDir), 0o755); err != nil {
		return "", err
	}
	rel := path.Join(UploadDir, uuid.NewString()+ext)

	src, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", u.Name, err)
	}
	defer src.Close()

	head := make([]byte, sniffLimit)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("read upload %q: %w", u.Name, err)
	}
	head = head[:n]
	if !IsImageContent(head) {
		return "", ErrUnsupportedImage
	}

	dst, err := os.Create(s.abs(rel))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), src)); err != nil {
		dst.Close()
		_ = os.Remove(s.abs(rel))
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(s.abs(rel))
		return "", err
	}
	return rel, nil
}

// SaveAll сохраняет все файлы; при ошибке уже записанные удаляются.
// index — номер файла, на котором упали.
func (s *Store) SaveAll(uploads []Upload) (paths []string, index int, err error) {
	for i, u := range uploads {
		p, err := s.Save(u)
		if err != nil {
			s.DeleteAll(paths)
			return nil, i, err
		}
		paths = append(paths, p)
	}
	return paths, -1, nil
}

// Delete — отсутствие файла не ошибка
func (s *Store) Delete(rel string) error {
	abs, err := s.safeAbs(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// DeleteAll удаляет что может, возвращает первую ошибку
func (s *Store) DeleteAll(paths []string) error {
	var first error
	for _, p := range paths {
		if err := s.Delete(p); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Store) Exists(rel string) bool {
	abs, err := s.safeAbs(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// URL — абсолютная ссылка на файл: <APP_URL>/storage/<path>
func (s *Store) URL(rel string) string {
	return s.baseURL + "/storage/" + strings.TrimLeft(rel, "/")
}

func (s *Store) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// safeAbs не выпускает путь за пределы uploads/
func (s *Store) safeAbs(rel string) (string, error) {
	clean := path.Clean("/" + rel)[1:]
	if !strings.HasPrefix(clean, UploadDir+"/") {
		return "", fmt.Errorf("path %q is outside of %s", rel, UploadDir)
	}
	return s.abs(clean), nil
}
