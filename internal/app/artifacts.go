package app

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// The solve program emits results as fenced code blocks on stdout (the
// diagram path prints ```xml blocks). Each block becomes an artifact file.
var fencedBlockRE = regexp.MustCompile("(?s)```([a-zA-Z0-9_+.-]*)\n(.*?)\n```")

var blockExtensions = map[string]string{
	"xml":    ".xml",
	"python": ".py",
	"py":     ".py",
	"json":   ".json",
	"yaml":   ".yml",
	"yml":    ".yml",
	"html":   ".html",
	"svg":    ".svg",
}

// ExtractArtifacts scans captured stdout for fenced blocks and writes each
// one under destDir as block-<n> with an extension matching the fence
// language tag. No blocks is not an error; destDir is only created when
// there is something to write.
func ExtractArtifacts(stdoutPath, destDir string) ([]string, error) {
	data, err := os.ReadFile(stdoutPath)
	if err != nil {
		return nil, err
	}

	matches := fencedBlockRE.FindAllSubmatch(data, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	for i, m := range matches {
		lang := strings.ToLower(string(m[1]))
		ext, ok := blockExtensions[lang]
		if !ok {
			ext = ".txt"
		}
		body := string(m[2]) + "\n"
		path := filepath.Join(destDir, fmt.Sprintf("block-%d%s", i+1, ext))
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
