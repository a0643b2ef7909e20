package util

import (
	"os"
)

// FileStamp identifies one version of a file's content
type FileStamp struct {
	ModTime int64 `json:"mod_time"`
	Size    int64 `json:"size"`
}

// StatFile returns the current stamp of path
func StatFile(path string) (FileStamp, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FileStamp{}, err
	}
	return FileStamp{ModTime: stat.ModTime().UnixNano(), Size: stat.Size()}, nil
}
