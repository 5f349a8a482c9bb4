package packed

// OpenFile maps filename into memory (falling back to a full read on
// platforms without mmap) and decodes it as a packed buffer. Deserialize
// copies every field into a fresh Go string, so the returned rows stay
// valid after cleanup unmaps the file; call cleanup once done to release
// the mapping.
func OpenFile(filename string) (rows [][]string, cleanup func(), err error) {
	data, cleanup, err := mapFile(filename)
	if err != nil {
		return nil, nil, err
	}
	rows, err = Deserialize(data)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return rows, cleanup, nil
}
