package models

import "errors"

// ErrInvalid tags malformed or missing input; handlers surface it as a
// client error, never a server one.
var ErrInvalid = errors.New("validation failed")
