package recipients

import "errors"

var (
	// ErrMissingColumns is returned when the header lacks Names or Emails.
	ErrMissingColumns = errors.New("recipients: file must contain columns: Names, Emails")

	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("recipients: unsupported file format")

	// ErrEmptyFile is returned when the file has no header row.
	ErrEmptyFile = errors.New("recipients: file is empty")

	// ErrInvalidFile wraps parser failures.
	ErrInvalidFile = errors.New("recipients: invalid file")
)
