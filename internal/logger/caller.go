package logger

import (
	"fmt"
	"path/filepath"
	"runtime"
)

func callerName(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
