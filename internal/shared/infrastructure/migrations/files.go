package migrations

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

type migrationFile struct {
	name    string
	version string
	sql     string
}

// upFiles returns the *.up.sql files of dir sorted by name. The version is
// the name prefix before the first underscore.
func upFiles(fsys embed.FS, dir string) ([]migrationFile, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	files := make([]migrationFile, 0, len(names))
	for _, name := range names {
		content, err := fsys.ReadFile(dir + "/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		version, _, _ := strings.Cut(name, "_")
		files = append(files, migrationFile{name: name, version: version, sql: string(content)})
	}
	return files, nil
}
