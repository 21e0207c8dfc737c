/*
Package idl parses .bf files, the text form of schema declarations.

	package {{package name}}

	Enum {{Ident}} {
		{{Ident}} [@{{Integer}}]
	}

	Record {{Ident}} {
		{{name}} {{B1..B64|bool|Enum Ident}} [bits({{Integer}})]
	}

A variant without @{{Integer}} takes the value of the variant before it plus one. bits(N)
asserts the width the field type resolves to. Comments start with // and run to the end of
the line.
*/
package idl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gostdlib/base/context"
	"github.com/johnsiilver/halfpike"

	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/schema"
)

// Parse parses content into a schema.File. It does not check the declarations beyond their
// syntax, use schema.Compile for that.
func Parse(ctx context.Context, content string) (schema.File, error) {
	f := New()
	if err := halfpike.Parse(ctx, content, f); err != nil {
		return schema.File{}, errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "%w", err)
	}
	return f.File, nil
}

// File holds the parse state of a .bf file and implements halfpike's Validator.
type File struct {
	schema.File

	idents map[string]int
}

// New creates a File ready for halfpike.Parse().
func New() *File {
	return &File{idents: map[string]int{}}
}

// Validate implements halfpike.Validator.
func (f *File) Validate() error {
	if f.Package == "" {
		return fmt.Errorf("file has no 'package' line")
	}
	return nil
}

// Start is the start point for reading the IDL.
func (f *File) Start(ctx context.Context, p *halfpike.Parser) halfpike.ParseFn {
	return f.parsePackage
}

// next returns the next line that holds something other than a comment. The words are the
// items of the line up to any comment.
func (f *File) next(p *halfpike.Parser) (halfpike.Line, []string) {
	for {
		line := p.Next()
		if p.EOF(line) {
			return line, nil
		}
		if w := words(line); len(w) > 0 {
			return line, w
		}
	}
}

func words(line halfpike.Line) []string {
	var out []string
	for _, item := range line.Items {
		v := strings.TrimSpace(item.Val)
		if v == "" {
			continue
		}
		if strings.HasPrefix(v, "//") {
			break
		}
		if i := strings.Index(v, "//"); i > 0 {
			out = append(out, v[:i])
			break
		}
		out = append(out, v)
	}
	return out
}

func (f *File) parsePackage(ctx context.Context, p *halfpike.Parser) halfpike.ParseFn {
	line, w := f.next(p)
	if p.EOF(line) {
		return nil
	}

	if len(w) != 2 {
		return p.Errorf("[Line %d] error: got %q, want: 'package {{package name}}'", line.LineNum, strings.TrimSpace(line.Raw))
	}
	if err := caseSensitiveCheck("package", w[0]); err != nil {
		return p.Errorf("[Line %d] error: %w", line.LineNum, err)
	}
	if err := validPackage(w[1]); err != nil {
		return p.Errorf("[Line %d] error: %w", line.LineNum, err)
	}
	f.Package = w[1]

	return f.findNext
}

func (f *File) findNext(ctx context.Context, p *halfpike.Parser) halfpike.ParseFn {
	line, w := f.next(p)
	if p.EOF(line) {
		return nil
	}

	switch w[0] {
	case "Enum":
		e, err := f.parseEnum(p, line, w)
		if err != nil {
			return p.Errorf("%w", err)
		}
		if err := f.declare(e.Name, line.LineNum); err != nil {
			return p.Errorf("%w", err)
		}
		f.Enums = append(f.Enums, e)
	case "Record":
		r, err := f.parseRecord(p, line, w)
		if err != nil {
			return p.Errorf("%w", err)
		}
		if err := f.declare(r.Name, line.LineNum); err != nil {
			return p.Errorf("%w", err)
		}
		f.Records = append(f.Records, r)
	case "package":
		return p.Errorf("[Line %d] error: second 'package' line", line.LineNum)
	default:
		if strings.EqualFold(w[0], "enum") || strings.EqualFold(w[0], "record") {
			return p.Errorf("[Line %d] error: %q keyword must be capitalized", line.LineNum, w[0])
		}
		return p.Errorf("[Line %d] error: do not understand this line, expected 'Enum' or 'Record'", line.LineNum)
	}
	return f.findNext
}

func (f *File) declare(name string, lineNum int) error {
	if prev, ok := f.idents[name]; ok {
		return fmt.Errorf("[Line %d] error: %q already declared on line %d", lineNum, name, prev)
	}
	f.idents[name] = lineNum
	return nil
}

// openBlock checks a "Keyword Ident {" line.
func openBlock(line halfpike.Line, w []string) (string, error) {
	if len(w) != 3 || w[2] != "{" {
		return "", fmt.Errorf("[Line %d] error: got %q, want: '%s {{Ident}} {'", line.LineNum, strings.Join(w, " "), w[0])
	}
	if err := validateIdent(w[1]); err != nil {
		return "", fmt.Errorf("[Line %d] error: %s identifier: %w", line.LineNum, w[0], err)
	}
	return w[1], nil
}

func (f *File) parseEnum(p *halfpike.Parser, line halfpike.Line, w []string) (schema.EnumDecl, error) {
	name, err := openBlock(line, w)
	if err != nil {
		return schema.EnumDecl{}, err
	}
	e := schema.EnumDecl{Name: name, Line: line.LineNum}

	seen := map[string]bool{}
	for {
		l, w := f.next(p)
		if p.EOF(l) {
			return schema.EnumDecl{}, fmt.Errorf("[Line %d] error: Enum %s: EOF reached before closing '}'", line.LineNum, name)
		}
		if w[0] == "}" {
			if len(w) != 1 {
				return schema.EnumDecl{}, fmt.Errorf("[Line %d] error: unexpected %q after '}'", l.LineNum, strings.Join(w[1:], " "))
			}
			break
		}
		if len(w) > 2 {
			return schema.EnumDecl{}, fmt.Errorf("[Line %d] error: got %q, want: '{{Ident}} [@{{Integer}}]'", l.LineNum, strings.Join(w, " "))
		}
		if err := validateIdent(w[0]); err != nil {
			return schema.EnumDecl{}, fmt.Errorf("[Line %d] error: Enum %s value: %w", l.LineNum, name, err)
		}
		if seen[w[0]] {
			return schema.EnumDecl{}, fmt.Errorf("[Line %d] error: Enum %s already contains %q", l.LineNum, name, w[0])
		}
		seen[w[0]] = true

		v := schema.ValueDecl{Name: w[0]}
		if len(w) == 2 {
			if !strings.HasPrefix(w[1], "@") {
				return schema.EnumDecl{}, fmt.Errorf("[Line %d] error: expected @{{Integer}} after identifier, got %q", l.LineNum, w[1])
			}
			n, err := strconv.ParseInt(strings.TrimPrefix(w[1], "@"), 10, 64)
			if err != nil {
				return schema.EnumDecl{}, fmt.Errorf("[Line %d] error: expected @{{Integer}} after identifier, got %q", l.LineNum, w[1])
			}
			v.Value = &n
		}
		e.Values = append(e.Values, v)
	}
	if len(e.Values) == 0 {
		return schema.EnumDecl{}, fmt.Errorf("[Line %d] error: Enum %s has no values", line.LineNum, name)
	}
	return e, nil
}

func (f *File) parseRecord(p *halfpike.Parser, line halfpike.Line, w []string) (schema.RecordDecl, error) {
	name, err := openBlock(line, w)
	if err != nil {
		return schema.RecordDecl{}, err
	}
	r := schema.RecordDecl{Name: name, Line: line.LineNum}

	seen := map[string]bool{}
	for {
		l, w := f.next(p)
		if p.EOF(l) {
			return schema.RecordDecl{}, fmt.Errorf("[Line %d] error: Record %s: EOF reached before closing '}'", line.LineNum, name)
		}
		if w[0] == "}" {
			if len(w) != 1 {
				return schema.RecordDecl{}, fmt.Errorf("[Line %d] error: unexpected %q after '}'", l.LineNum, strings.Join(w[1:], " "))
			}
			break
		}
		if len(w) < 2 || len(w) > 3 {
			return schema.RecordDecl{}, fmt.Errorf("[Line %d] error: got %q, want: '{{name}} {{Type}} [bits({{Integer}})]'", l.LineNum, strings.Join(w, " "))
		}
		if err := validField(w[0]); err != nil {
			return schema.RecordDecl{}, fmt.Errorf("[Line %d] error: Record %s field: %w", l.LineNum, name, err)
		}
		if seen[w[0]] {
			return schema.RecordDecl{}, fmt.Errorf("[Line %d] error: Record %s already contains field %q", l.LineNum, name, w[0])
		}
		seen[w[0]] = true

		fd := schema.FieldDecl{Name: w[0], Type: w[1], Line: l.LineNum}
		if len(w) == 3 {
			n, err := bitsAttr(w[2])
			if err != nil {
				return schema.RecordDecl{}, fmt.Errorf("[Line %d] error: %w", l.LineNum, err)
			}
			fd.Bits = n
		}
		r.Fields = append(r.Fields, fd)
	}
	return r, nil
}

// bitsAttr decodes "bits(N)".
func bitsAttr(s string) (int, error) {
	if !strings.HasPrefix(s, "bits(") || !strings.HasSuffix(s, ")") {
		return 0, fmt.Errorf("got %q, want: 'bits({{Integer}})'", s)
	}
	n, err := strconv.Atoi(s[len("bits(") : len(s)-1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bits() takes a positive integer, got %q", s)
	}
	return n, nil
}

func caseSensitiveCheck(want string, item string) error {
	if item != want {
		if strings.EqualFold(item, want) {
			return fmt.Errorf("%q keyword found, but it is required to be %q", item, want)
		}
		return fmt.Errorf("got: %q, want: %q", item, want)
	}
	return nil
}

func validPackage(pkgName string) error {
	runes := []rune(pkgName)
	if unicode.IsUpper(runes[0]) {
		return fmt.Errorf("package name cannot start with an uppercase letter")
	}
	if !unicode.IsLetter(runes[0]) {
		return fmt.Errorf("package name must start with a letter")
	}
	for _, r := range runes[1:] {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			continue
		}
		return fmt.Errorf("package name contains character %q which is invalid for a package name", r)
	}
	return nil
}

func validateIdent(ident string) error {
	runes := []rune(ident)
	if !unicode.IsLetter(runes[0]) {
		return fmt.Errorf("identifier %q must start with a letter", ident)
	}
	if unicode.IsLower(runes[0]) {
		return fmt.Errorf("identifier %q cannot start with a lowercase letter", ident)
	}
	for _, r := range runes[1:] {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		return fmt.Errorf("identifier %q contains character %q", ident, r)
	}
	return nil
}

// validField allows any letter to start a field name, followed by letters, numbers or _.
func validField(name string) error {
	runes := []rune(name)
	if !unicode.IsLetter(runes[0]) {
		return fmt.Errorf("field name %q must start with a letter", name)
	}
	for _, r := range runes[1:] {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			continue
		}
		return fmt.Errorf("field name %q contains character %q", name, r)
	}
	return nil
}
