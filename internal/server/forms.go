package server

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	inkerrors "github.com/conneroisu/inkpot/internal/errors"
)

const maxFormBytes = 1 << 20

// pathID returns the {id} URL parameter. A value that is not an integer
// can never match a record, so it is reported as not found.
func pathID(r *http.Request, what string) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, inkerrors.NotFound("%s %q not found", what, raw)
	}
	return id, nil
}

// formValues reads the submitted fields. URL-encoded and multipart forms
// are the normal case; JSON objects are accepted too so API clients can
// post the same fields.
func formValues(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			return nil, inkerrors.BadRequest(err, "request body is not a JSON object")
		}
		values := url.Values{}
		for key, value := range fields {
			if value == nil {
				continue
			}
			values.Set(key, fmt.Sprint(value))
		}
		return values, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return nil, inkerrors.BadRequest(err, "could not read form")
		}
		return r.PostForm, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, inkerrors.BadRequest(err, "could not read form")
	}
	return r.PostForm, nil
}

// categoryID parses the categoryId field. Anything that is not an integer
// becomes 0, which no category ever has.
func categoryID(values url.Values) int {
	id, err := strconv.Atoi(strings.TrimSpace(values.Get("categoryId")))
	if err != nil {
		return 0
	}
	return id
}
