// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhngo/inkgate/internal/platform/apperr"
	"github.com/minhngo/inkgate/internal/platform/ctxutil"
	"github.com/minhngo/inkgate/internal/platform/sec"
	"github.com/minhngo/inkgate/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
// Returns [validate.ErrInvalidJSON] if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Actor extracts the authenticated actor from the request context.
//
// Returns nil if the request is anonymous.
func Actor(request *http.Request) *sec.Actor {
	return ctxutil.GetActor(request.Context())
}

// RequiredActor ensures the request is authenticated and returns the actor.
//
// Returns [apperr.Unauthorized] if the request is anonymous.
func RequiredActor(request *http.Request) (*sec.Actor, error) {
	actor := ctxutil.GetActor(request.Context())
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return actor, nil
}
