package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithFileSystem sets the file system used by Load and Save.
func WithFileSystem(fsys FileSystem) Option {
	return func(b *Buffer) {
		if fsys != nil {
			b.fs = fsys
		}
	}
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			crlfCount++
			i += 2
		} else if text[i] == '\r' {
			crCount++
			i++
		} else if text[i] == '\n' {
			lfCount++
			i++
		} else {
			i++
		}
	}

	if crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount {
		return LineEndingCRLF
	}
	if crCount > 0 && crCount > lfCount {
		return LineEndingCR
	}
	return LineEndingLF
}
