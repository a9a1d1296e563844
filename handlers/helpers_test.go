// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/civic-vote/middleware"
	"github.com/danielhkuo/civic-vote/models"
	"github.com/danielhkuo/civic-vote/testutil"
)

// asUser builds a request already carrying user, as Authenticate would
// leave it.
func asUser(user models.User, method, path string, body interface{}) *http.Request {
	req := testutil.MakeRequest(method, path, body, nil)
	return req.WithContext(middleware.WithUser(req.Context(), user))
}
