package main

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitfield/internal/conversions"
	"github.com/bearlytools/bitfield/internal/idl"
	"github.com/bearlytools/bitfield/languages/go/schema"
)

// cliFS is the filesystem the commands read schemas and streams from and write streams to.
type cliFS interface {
	fs.ReadFileFS
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// loadSet reads the schema file at path and compiles it. Files ending in .yaml or .yml are
// YAML, anything else is the .bf language.
func loadSet(ctx context.Context, fsys cliFS, path string) (*schema.Set, error) {
	content, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f schema.File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = schema.FromYAML(content)
	default:
		f, err = idl.Parse(ctx, conversions.ByteSlice2String(content))
	}
	if err != nil {
		return nil, err
	}
	return schema.Compile(f)
}
