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

package server

import (
	"encoding/json"
	"mime"
	"net/http"
)

// request is the body accepted by every evaluation endpoint. Each field holds
// raw JSON, which is only decoded by the endpoints which use it.
type request struct {
	Selector json.RawMessage `json:"selector"`
	Doc      json.RawMessage `json:"doc"`
	Docs     json.RawMessage `json:"docs"`
}

// formRequest is the form-encoded variant of request, where each field holds
// JSON text.
type formRequest struct {
	Selector string `form:"selector"`
	Doc      string `form:"doc"`
	Docs     string `form:"docs"`
}

func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

func (s *Server) bind(r *http.Request) (*request, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		defer r.Body.Close()
		req := &request{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, badRequest("invalid request body: " + err.Error())
		}
		return req, nil
	case "application/x-www-form-urlencoded":
		defer r.Body.Close()
		if err := r.ParseForm(); err != nil {
			return nil, badRequest(err.Error())
		}
		form := &formRequest{}
		if err := s.formDecoder.Decode(r.Form, form); err != nil {
			return nil, badRequest(err.Error())
		}
		return &request{
			Selector: rawJSON(form.Selector),
			Doc:      rawJSON(form.Doc),
			Docs:     rawJSON(form.Docs),
		}, nil
	default:
		return nil, &httpError{status: http.StatusUnsupportedMediaType, Err: "bad_content_type", Reason: "Content-Type must be 'application/x-www-form-urlencoded' or 'application/json'"}
	}
}
