package tile

// MarshalText implements the encoding.TextMarshaler interface so tiles can be used as json map keys.
func (t Tile) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface to read tiles in the "a-b" format.
func (t *Tile) UnmarshalText(b []byte) error {
	t2, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = *t2
	return nil
}
