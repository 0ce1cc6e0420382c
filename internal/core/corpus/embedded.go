package corpus

import (
	"embed"
	"os"
)

//go:embed manifest.json templates
var embedded embed.FS

// Embedded returns the corpus compiled into the binary
func Embedded() (Corpus, error) {
	return LoadFS(embedded)
}

// LoadDir reads a corpus from a directory holding manifest.json and its
// template files, replacing the embedded set wholesale
func LoadDir(path string) (Corpus, error) {
	return LoadFS(os.DirFS(path))
}
