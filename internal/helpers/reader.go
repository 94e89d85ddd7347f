package helpers

import "io"

const errorBodyLimit = 4096

// ErrorBody reads at most 4KiB of an upstream error response for logging.
func ErrorBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, errorBodyLimit))
	return string(b)
}
