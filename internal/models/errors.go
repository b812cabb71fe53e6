package models

import "errors"

// ErrCardNotUsable is returned by callers when a race card fails usability
// validation and no scores were produced.
var ErrCardNotUsable = errors.New("race card failed validation")
