package api

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type upload struct {
	Filename string
	Body     []byte
	Digest   string
}

func (u *upload) Text() string { return string(u.Body) }

type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

// readTextUpload reads the multipart "file" field. Only UTF-8 .txt files no
// larger than limit are accepted.
func readTextUpload(w http.ResponseWriter, r *http.Request, limit int64) (*upload, error) {
	if r.ContentLength > limit {
		return nil, &uploadError{http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", limit)}
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, &uploadError{http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", limit)}
		}
		return nil, &uploadError{http.StatusBadRequest, "expected a multipart form with a file field"}
	}
	defer r.MultipartForm.RemoveAll()

	f, header, err := r.FormFile("file")
	if err != nil {
		return nil, &uploadError{http.StatusBadRequest, "missing file field"}
	}
	defer f.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".txt") {
		return nil, &uploadError{http.StatusBadRequest, "only .txt files are accepted"}
	}
	body, err := io.ReadAll(f)
	if err != nil {
		return nil, &uploadError{http.StatusBadRequest, "failed to read file"}
	}
	if !utf8.Valid(body) {
		return nil, &uploadError{http.StatusBadRequest, "file is not valid UTF-8"}
	}

	sum := blake2b.Sum256(body)
	return &upload{
		Filename: header.Filename,
		Body:     body,
		Digest:   hex.EncodeToString(sum[:]),
	}, nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	var ue *uploadError
	if errors.As(err, &ue) {
		writeError(w, ue.status, ue.msg)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// queryInt returns def for a missing parameter and an error for one that is
// not an integer.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}
