package webhook

import (
	"ProjectBodycheck/pkg/response"
	"errors"
	"net/http"
)

var (
	// ErrContentFetch means the photo bytes could not be retrieved from the
	// platform. The slot stays empty and the user is asked to resend.
	ErrContentFetch = errors.New("failed to fetch image content")

	// ErrSessionNotFound is returned by the session store for users with no
	// pending slots.
	ErrSessionNotFound = errors.New("session not found")

	ErrInvalidSignature = response.NewError(http.StatusBadRequest, "invalid webhook signature")
)
