package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sql/*.sql curves/*.lua
var FS embed.FS

// Migrations lists the embedded migration files in apply order.
func Migrations() ([]string, error) {
	entries, err := fs.ReadDir(FS, "sql")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			continue
		}
		out = append(out, "sql/"+e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Curve returns a bundled difficulty script by name, e.g. "gentle".
func Curve(name string) (string, error) {
	b, err := FS.ReadFile("curves/" + name + ".lua")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
