package status

import "errors"

var (
	ErrNoPassYet    = errors.New("no pass has completed yet")
	ErrFileNotFound = errors.New("file not found in last pass")
)
