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

import "net/http"

var (
	errNotFound         = &httpError{status: http.StatusNotFound, Err: "not_found", Reason: "Endpoint not found."}
	errMethodNotAllowed = &httpError{status: http.StatusMethodNotAllowed, Err: "method_not_allowed", Reason: "Method not allowed."}
)

type httpError struct {
	status int
	Err    string `json:"error"`
	Reason string `json:"reason"`
}

func (e *httpError) Error() string {
	return e.Reason
}

func (e *httpError) HTTPStatus() int {
	return e.status
}

func badRequest(reason string) error {
	return &httpError{status: http.StatusBadRequest, Err: "bad_request", Reason: reason}
}
