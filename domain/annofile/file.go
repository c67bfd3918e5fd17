package annofile

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/soocke/frame-annotator-go/domain/annotation"
)

// Save writes the annotation to path through a temporary file in the same
// directory, so a failed write never truncates an existing file. It returns
// the number of bytes written.
func Save(path string, v *annotation.Video, reg *annotation.Registry) (int64, error) {
	var buf bytes.Buffer
	if err := Write(&buf, v, reg); err != nil {
		return 0, &ResourceError{Op: "encode", Path: path, Err: err}
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".annotation-*.tmp")
	if err != nil {
		return 0, &ResourceError{Op: "create", Path: path, Err: err}
	}
	name := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(name)
		return 0, &ResourceError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(name)
		return 0, &ResourceError{Op: "chmod", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return 0, &ResourceError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return 0, &ResourceError{Op: "rename", Path: path, Err: err}
	}
	return int64(buf.Len()), nil
}

// Load reads the annotation stored at path for a video made of files.
func Load(path string, files []string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	return Read(f, files)
}

// Ensure creates path as a valid empty annotation when it does not exist yet.
// It reports whether the file was created.
func Ensure(path string, files []string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, &ResourceError{Op: "stat", Path: path, Err: err}
	}
	v := annotation.NewVideo(files)
	v.Name = annotation.PlaceholderName
	if _, err := Save(path, v, annotation.NewRegistry()); err != nil {
		return false, err
	}
	return true, nil
}
