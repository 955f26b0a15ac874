package imaging

import (
	"errors"
	"io/fs"
	"os"

	"lenscheck/internal/services"
)

// Source is an in-memory image input. Name is how the input was given (path,
// URL, or upload file name) and is echoed in reports.
type Source struct {
	Name string
	Data []byte
}

// ReadFile loads a local file into a Source.
func ReadFile(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, classifyOpenError(path, err)
	}
	if info.IsDir() {
		return Source{}, services.Wrap(services.ErrUnreadable, "read", path+" is a directory", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, classifyOpenError(path, err)
	}
	return Source{Name: path, Data: data}, nil
}

func classifyOpenError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return services.Wrap(services.ErrNotFound, "read", path, nil)
	case errors.Is(err, fs.ErrPermission):
		return services.Wrap(services.ErrUnreadable, "read", path+": permission denied", nil)
	default:
		return services.Wrap(services.ErrUnreadable, "read", path, err)
	}
}
