// Command bitfieldc inspects packed record schemas and converts records between their packed
// form, hex and JSON.
//
//	bitfieldc layout FILE
//	bitfieldc decode FILE --record NAME --hex HEX
//	bitfieldc encode FILE --record NAME --json JSON
//	bitfieldc pack FILE --record NAME --out STREAM [--compression none|snappy|zstd] < records.jsonl
//	bitfieldc dump FILE --record NAME STREAM
//
// FILE is a .bf schema or a .yaml/.yml schema.
package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	osfs "github.com/gopherfs/fs/io/os"
	"github.com/gostdlib/base/context"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/bearlytools/bitfield/internal/conversions"
	"github.com/bearlytools/bitfield/languages/go/bitjson"
	"github.com/bearlytools/bitfield/languages/go/errors"
	"github.com/bearlytools/bitfield/languages/go/field"
	"github.com/bearlytools/bitfield/languages/go/schema"
	"github.com/bearlytools/bitfield/languages/go/stream"
)

const usage = `usage: bitfieldc [-v] <command> FILE [flags]

commands:
  layout FILE                                  print the field layout of every record
  decode FILE --record NAME --hex HEX          print a packed record as JSON
  encode FILE --record NAME --json JSON        print a JSON record as packed hex
  pack FILE --record NAME --out STREAM         pack JSON lines from stdin into a record stream
  dump FILE --record NAME STREAM               print each record of a stream as a JSON line
`

// errUsage is wrapped by every error caused by a malformed command line.
var errUsage = errors.New("invalid command line")

func main() {
	ctx := context.Background()

	global := flag.NewFlagSet("bitfieldc", flag.ExitOnError)
	verbose := global.BoolP("verbose", "v", false, "log debug output to stderr")
	global.SetInterspersed(false)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	global.Parse(os.Args[1:])

	log, err := newLogger(*verbose)
	if err != nil {
		exitf("could not create logger: %s", err)
	}
	defer log.Sync()

	fsys, err := osfs.New()
	if err != nil {
		exitf("can't access OS: %s", err)
	}

	a := &app{fs: fsys, log: log, in: os.Stdin, out: os.Stdout}
	if err := a.run(ctx, global.Args()); err != nil {
		log.Debug("command failed", zap.Strings("args", global.Args()), zap.Error(err))
		exit(err)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// app holds what the commands need so tests can swap the filesystem and streams.
type app struct {
	fs  cliFS
	log *zap.Logger
	in  io.Reader
	out io.Writer
}

// cmdFlags are the flags shared by the commands.
type cmdFlags struct {
	record      string
	hex         string
	json        string
	out         string
	compression string
	multiline   bool
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.Ef(ctx, errors.CatUser, errors.TypeParameter, "%w\n%s", errUsage, usage)
	}
	cmd := args[0]

	fl := cmdFlags{}
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&fl.record, "record", "", "name of the record in FILE")
	fs.StringVar(&fl.hex, "hex", "", "packed record as hex")
	fs.StringVar(&fl.json, "json", "", "record as a JSON object")
	fs.StringVar(&fl.out, "out", "", "path of the stream to write")
	fs.StringVar(&fl.compression, "compression", "none", "stream compression: none, snappy or zstd")
	fs.BoolVar(&fl.multiline, "multiline", false, "indent JSON output")
	if err := fs.Parse(args[1:]); err != nil {
		return errors.Ef(ctx, errors.CatUser, errors.TypeParameter, "%s: %w: %w", cmd, errUsage, err)
	}
	pos := fs.Args()
	if len(pos) == 0 {
		return errors.Ef(ctx, errors.CatUser, errors.TypeParameter, "%s: missing FILE: %w", cmd, errUsage)
	}

	path, err := filepath.Abs(pos[0])
	if err != nil {
		return err
	}
	a.log.Debug("loading schema", zap.String("path", path))
	set, err := loadSet(ctx, a.fs, path)
	if err != nil {
		return errors.Ef(ctx, errors.CatUser, errors.TypeSchema, "%s: %w", pos[0], err)
	}
	a.log.Debug("schema loaded", zap.String("package", set.Package()), zap.Int("records", len(set.Records())), zap.Int("enums", len(set.Enums())))

	switch cmd {
	case "layout":
		return a.layout(set)
	case "decode":
		return a.decode(ctx, set, fl)
	case "encode":
		return a.encode(ctx, set, fl)
	case "pack":
		return a.pack(ctx, set, fl)
	case "dump":
		if len(pos) != 2 {
			return errors.Ef(ctx, errors.CatUser, errors.TypeParameter, "dump: want FILE STREAM, got %d arguments: %w", len(pos), errUsage)
		}
		return a.dump(ctx, set, fl, pos[1])
	}
	return errors.Ef(ctx, errors.CatUser, errors.TypeParameter, "unknown command %q: %w\n%s", cmd, errUsage, usage)
}

func (a *app) layout(set *schema.Set) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for i, s := range set.Records() {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\t%d bytes\n", s.Name(), s.Bytes())
		for _, f := range s.Fields() {
			t := f.Type().String()
			switch f.Kind() {
			case field.KindUnsigned:
				t = f.Specifier().Name() + " (" + t + ")"
			case field.KindEnum:
				t = f.Enum().Name() + " (enum)"
			}
			fmt.Fprintf(tw, "  %s\t%s\t[%d:%d)\n", f.Name(), t, f.Offset(), f.Offset()+f.Width())
		}
	}
	return tw.Flush()
}

func (a *app) decode(ctx context.Context, set *schema.Set, fl cmdFlags) error {
	s, err := set.Record(fl.record)
	if err != nil {
		return err
	}
	b, err := parseHex(fl.hex)
	if err != nil {
		return err
	}
	r, err := s.FromBytes(b)
	if err != nil {
		return err
	}
	a.log.Debug("decoded", zap.String("record", r.String()), zap.String("bits", r.Binary()))

	j, err := bitjson.Marshal(ctx, r, bitjson.WithMultiline(fl.multiline))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "%s\n", j)
	return err
}

func (a *app) encode(ctx context.Context, set *schema.Set, fl cmdFlags) error {
	s, err := set.Record(fl.record)
	if err != nil {
		return err
	}
	r, err := bitjson.Unmarshal(ctx, s, conversions.UnsafeGetBytes(fl.json))
	if err != nil {
		return err
	}
	a.log.Debug("encoded", zap.String("record", r.String()), zap.String("bits", r.Binary()))

	_, err = fmt.Fprintln(a.out, hex.EncodeToString(r.Bytes()))
	return err
}

func (a *app) pack(ctx context.Context, set *schema.Set, fl cmdFlags) error {
	s, err := set.Record(fl.record)
	if err != nil {
		return err
	}
	if fl.out == "" {
		return errors.Ef(ctx, errors.CatUser, errors.TypeParameter, "pack: --out is required: %w", errUsage)
	}
	cmp, err := parseCompression(fl.compression)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	w, err := stream.NewWriter(ctx, buf, s, stream.WithCompression(cmp))
	if err != nil {
		return err
	}

	n := 0
	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		r, err := bitjson.Unmarshal(ctx, s, line)
		if err != nil {
			return errors.Ef(ctx, errors.CatUser, errors.TypeParameter, "pack: record %d: %w", n+1, err)
		}
		if err := w.Write(ctx, r); err != nil {
			return err
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if err := a.fs.WriteFile(fl.out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	a.log.Info("packed records", zap.Int("records", n), zap.Int("bytes", buf.Len()), zap.String("compression", cmp.String()), zap.String("out", fl.out))
	return nil
}

func (a *app) dump(ctx context.Context, set *schema.Set, fl cmdFlags, path string) error {
	s, err := set.Record(fl.record)
	if err != nil {
		return err
	}
	data, err := a.fs.ReadFile(path)
	if err != nil {
		return err
	}
	r, err := stream.NewReader(ctx, bytes.NewReader(data), s)
	if err != nil {
		return err
	}
	defer r.Close()
	a.log.Debug("reading stream", zap.String("path", path), zap.String("compression", r.Compression().String()))

	for rec, err := range r.Records(ctx) {
		if err != nil {
			return err
		}
		j, err := bitjson.Marshal(ctx, rec)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(a.out, "%s\n", j); err != nil {
			return err
		}
	}
	return nil
}

// parseHex decodes hex with an optional 0x prefix. Spaces and underscores are ignored.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.NewReplacer(" ", "", "_", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Ef(context.Background(), errors.CatUser, errors.TypeParameter, "--hex: %w", err)
	}
	return b, nil
}

func parseCompression(s string) (stream.Compression, error) {
	for _, c := range []stream.Compression{stream.CmpNone, stream.CmpSnappy, stream.CmpZstd} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, errors.Ef(context.Background(), errors.CatUser, errors.TypeParameter, "--compression: unknown compression %q: %w", s, errUsage)
}

func exit(i ...any) {
	fmt.Fprintln(os.Stderr, i...)
	os.Exit(1)
}

func exitf(s string, i ...any) {
	fmt.Fprintf(os.Stderr, s+"\n", i...)
	os.Exit(1)
}
