// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//  http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package server serves selector evaluation over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/monoculum/formam/v3"
	"gitlab.com/flimzy/httpe"

	"github.com/ianatha/objmatch"
	"github.com/ianatha/objmatch/value"
)

// Server is a server instance.
type Server struct {
	mux         *chi.Mux
	formDecoder *formam.Decoder
	log         Logger
	matchOpts   []objmatch.Option
}

var _ http.Handler = &Server{}

// New instantiates a new server instance.
func New(options ...Option) *Server {
	s := &Server{
		mux: chi.NewMux(),
		formDecoder: formam.NewDecoder(&formam.DecoderOptions{
			TagName:           "form",
			IgnoreUnknownKeys: true,
		}),
		log: nopLogger{},
	}
	for _, option := range options {
		option.apply(s)
	}
	s.routes(s.mux)
	return s
}

func (s *Server) routes(mux *chi.Mux) {
	mux.Use(
		s.requestID,
		httpe.ToMiddleware(s.handleErrors),
	)
	mux.NotFound(httpe.ToHandler(s.notFound()).ServeHTTP)
	mux.MethodNotAllowed(httpe.ToHandler(s.methodNotAllowed()).ServeHTTP)

	mux.Get("/_up", httpe.ToHandler(s.up()).ServeHTTP)
	mux.Post("/_match", httpe.ToHandler(s.match()).ServeHTTP)
	mux.Post("/_filter", httpe.ToHandler(s.filter()).ServeHTTP)
	mux.Post("/_explain", httpe.ToHandler(s.explain()).ServeHTTP)
}

func (s *Server) handleErrors(next httpe.HandlerWithError) httpe.HandlerWithError {
	return httpe.HandlerWithErrorFunc(func(w http.ResponseWriter, r *http.Request) error {
		if err := next.ServeHTTPWithError(w, r); err != nil {
			status := httpStatus(err)
			he := &httpError{}
			if !errors.As(err, &he) {
				he.Err = strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
				he.Reason = err.Error()
			}
			s.log.Debugf("[%s] %s %s: %s", w.Header().Get(HeaderRequestID), r.Method, r.URL.Path, err)
			return serveJSON(w, status, he)
		}
		return nil
	})
}

func httpStatus(err error) int {
	var statuser interface {
		HTTPStatus() int
	}
	if errors.As(err, &statuser) {
		return statuser.HTTPStatus()
	}
	return http.StatusInternalServerError
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func serveJSON(w http.ResponseWriter, status int, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = io.Copy(w, bytes.NewReader(body))
	return err
}

func (s *Server) notFound() httpe.HandlerWithError {
	return httpe.HandlerWithErrorFunc(func(http.ResponseWriter, *http.Request) error {
		return errNotFound
	})
}

func (s *Server) methodNotAllowed() httpe.HandlerWithError {
	return httpe.HandlerWithErrorFunc(func(http.ResponseWriter, *http.Request) error {
		return errMethodNotAllowed
	})
}

func (s *Server) up() httpe.HandlerWithError {
	return httpe.HandlerWithErrorFunc(func(w http.ResponseWriter, _ *http.Request) error {
		return serveJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": objmatch.Version,
		})
	})
}

func (s *Server) selector(raw json.RawMessage) (objmatch.Matcher, error) {
	if len(raw) == 0 {
		return nil, badRequest("selector required")
	}
	m, err := objmatch.Parse(raw, s.matchOpts...)
	if err != nil {
		var decodeErr *objmatch.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, err
		}
		return nil, badRequest("invalid selector: " + err.Error())
	}
	return m, nil
}

func document(field string, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, badRequest(field + " required")
	}
	doc, err := value.Parse(raw)
	if err != nil {
		return nil, badRequest("invalid " + field + ": " + err.Error())
	}
	return doc, nil
}

func (s *Server) match() httpe.HandlerWithError {
	return httpe.HandlerWithErrorFunc(func(w http.ResponseWriter, r *http.Request) error {
		req, err := s.bind(r)
		if err != nil {
			return err
		}
		m, err := s.selector(req.Selector)
		if err != nil {
			return err
		}
		doc, err := document("doc", req.Doc)
		if err != nil {
			return err
		}
		ok, err := m.Match(doc)
		if err != nil {
			return err
		}
		return serveJSON(w, http.StatusOK, map[string]bool{"match": ok})
	})
}

func (s *Server) filter() httpe.HandlerWithError {
	return httpe.HandlerWithErrorFunc(func(w http.ResponseWriter, r *http.Request) error {
		req, err := s.bind(r)
		if err != nil {
			return err
		}
		m, err := s.selector(req.Selector)
		if err != nil {
			return err
		}
		v, err := document("docs", req.Docs)
		if err != nil {
			return err
		}
		docs, ok := v.([]any)
		if !ok {
			return badRequest("docs must be an array")
		}
		matched := make([]any, 0, len(docs))
		for _, doc := range docs {
			ok, err := m.Match(doc)
			if err != nil {
				return err
			}
			if ok {
				matched = append(matched, doc)
			}
		}
		return serveJSON(w, http.StatusOK, map[string][]any{"docs": matched})
	})
}

func (s *Server) explain() httpe.HandlerWithError {
	return httpe.HandlerWithErrorFunc(func(w http.ResponseWriter, r *http.Request) error {
		req, err := s.bind(r)
		if err != nil {
			return err
		}
		m, err := s.selector(req.Selector)
		if err != nil {
			return err
		}
		return serveJSON(w, http.StatusOK, map[string]interface{}{
			"selector": m,
			"explain":  m.String(),
		})
	})
}
