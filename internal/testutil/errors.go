package testutil

import "errors"

var ErrNotFound = errors.New("not found")
