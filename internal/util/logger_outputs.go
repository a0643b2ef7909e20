package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// WriterOutput renders entries onto any io.Writer
type WriterOutput struct {
	mu     sync.Mutex
	writer io.Writer
	closer io.Closer
	format LogFormat
}

// NewConsoleOutput writes entries to w without owning it
func NewConsoleOutput(w io.Writer, format LogFormat) *WriterOutput {
	return &WriterOutput{writer: w, format: format}
}

// NewFileOutput appends entries to path, creating parent directories
func NewFileOutput(path string, format LogFormat) (*WriterOutput, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &WriterOutput{writer: file, closer: file, format: format}, nil
}

func (o *WriterOutput) Write(entry LogEntry) error {
	var line string
	if o.format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return err
		}
		line = string(data)
	} else {
		line = renderText(entry)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := fmt.Fprintln(o.writer, line)
	return err
}

func (o *WriterOutput) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}
