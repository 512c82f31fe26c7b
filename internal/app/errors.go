package app

import "errors"

var ErrUnknownBackend = errors.New("app: unknown backend")
