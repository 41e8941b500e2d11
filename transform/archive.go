package transform

// Archive is a reserved slot for zip/rar recompression. Always declines.
type Archive struct{}

func (Archive) Apply(data []byte) (*Result, error) {
	return nil, nil
}
