package scanner

import "fmt"

// NewReader validates opts, fills defaults and returns the strategy named by
// readerType.
func NewReader(readerType ReaderType, opts Options) (Reader, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	opts.ReaderType = readerType

	switch readerType {
	case ReaderBasic:
		return NewBasicReader(opts), nil
	case ReaderParallel:
		return NewParallelReader(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q (allowed: %s, %s)", ErrUnknownReaderType, readerType, ReaderBasic, ReaderParallel)
	}
}
