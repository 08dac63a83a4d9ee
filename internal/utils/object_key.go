package utils

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// GenerateObjectKey builds a unique storage key in the format prefix/uuid.ext
func GenerateObjectKey(prefix, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	name := uuid.NewString()
	if ext != "" {
		name = fmt.Sprintf("%s.%s", name, ext)
	}
	return path.Join(strings.Trim(prefix, "/"), name)
}
