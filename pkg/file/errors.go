package file

import "errors"

var (
	ErrInvalidConfig           = errors.New("file: invalid storage config")
	ErrInvalidPath             = errors.New("file: invalid path")
	ErrFailedToCreateDirectory = errors.New("file: failed to create directory")
	ErrFailedToWriteFile       = errors.New("file: failed to write file")
	ErrFailedToDeleteFile      = errors.New("file: failed to delete file")
)
