// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-notes-keeper/internal/utils"
)

// notFound answers unknown paths and, when registered as the router's
// MethodNotAllowed handler, known paths requested with an unsupported method.
// Both get the same JSON 404, so a wrong method does not reveal the route.
func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, msgNotFound, http.StatusNotFound)
}
