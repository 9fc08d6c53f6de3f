// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/voting"
)

var kindStatus = map[voting.Kind]int{
	voting.KindValidation: http.StatusBadRequest,
	voting.KindState:      http.StatusBadRequest,
	voting.KindNotFound:   http.StatusNotFound,
	voting.KindConflict:   http.StatusConflict,
	voting.KindForbidden:  http.StatusForbidden,
}

// writeError maps rejections to their status and code. Anything else is a
// storage fault and is logged, never shown to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if rej, ok := voting.AsRejection(err); ok {
		status, ok := kindStatus[rej.Kind]
		if !ok {
			status = http.StatusBadRequest
		}
		middleware.CodedErrorResponse(w, status, rej.Code, rej.Message)
		return
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}
