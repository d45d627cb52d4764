// Package filex holds small filesystem helpers for the client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubdDir creates dirName under the working directory if needed and
// returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// WritePrivate writes data to dirName/fileName, readable by the owner only.
// The file name is reduced to its base so it cannot escape dirName.
func WritePrivate(dirName, fileName string, data []byte) (string, error) {
	dir, err := EnsureSubdDir(dirName)
	if err != nil {
		return "", err
	}

	name := filepath.Base(fileName)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", fileName)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
