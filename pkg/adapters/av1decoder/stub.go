//go:build !aom

package av1decoder

// Available reports whether libaom support was compiled in.
func Available() bool {
	return false
}

func newCodec() (codec, error) {
	return nil, ErrNotBuilt
}
