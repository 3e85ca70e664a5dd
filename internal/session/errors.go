package session

import "errors"

var ErrSessionNotFound = errors.New("session_not_found")
