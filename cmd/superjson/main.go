// Command superjson inspects and rewrites superjson wire envelopes.
//
// Usage:
//
//	superjson inspect <file>   show the type annotations an envelope records
//	superjson plain <file>     strip metadata and print the bare JSON payload
//	superjson fmt <file>       re-encode an envelope in canonical form
//
// Pass "-" to read from stdin; --zstd decompresses the input first.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/klauspost/compress/zstd"

	"github.com/Neumenon/superjson"
)

var cli struct {
	Inspect InspectCmd `cmd:"" help:"Show the type annotations recorded in an envelope"`
	Plain   PlainCmd   `cmd:"" help:"Strip type metadata and print the plain JSON payload"`
	Fmt     FmtCmd     `cmd:"" help:"Re-encode an envelope in canonical form"`
}

// inputArgs is shared by all subcommands.
type inputArgs struct {
	File string `arg:"" help:"Envelope file, or - for stdin"`
	Zstd bool   `help:"Input is zstd-compressed"`
}

func (a *inputArgs) read() ([]byte, error) {
	var data []byte
	var err error
	if a.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(a.File)
	}
	if err != nil {
		return nil, err
	}
	if a.Zstd {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	}
	return data, nil
}

// InspectCmd lists every annotation path and tag in an envelope.
type InspectCmd struct {
	inputArgs
}

func (c *InspectCmd) Run() error {
	data, err := c.read()
	if err != nil {
		return err
	}
	env, err := superjson.ParseEnvelope(data)
	if err != nil {
		return err
	}
	if env.Meta == nil {
		fmt.Println("plain JSON: no type annotations")
		return nil
	}
	if env.Meta.V != 0 {
		fmt.Printf("format version: %d\n", env.Meta.V)
	}
	if len(env.Meta.ReferentialEqualities) > 0 {
		fmt.Printf("referentialEqualities: %s\n", env.Meta.ReferentialEqualities)
	}
	if env.Meta.Values == nil {
		return nil
	}
	if env.Meta.Values.Root != nil {
		printAnnotation("(root)", env.Meta.Values.Root)
		return nil
	}
	for _, e := range env.Meta.Values.Children {
		printAnnotation(e.Path, e.Ann)
	}
	return nil
}

func printAnnotation(path string, ann *superjson.TypeAnnotation) {
	fmt.Printf("%s: %s\n", path, ann.Name)
	for _, e := range ann.Children {
		printAnnotation(path+" > "+e.Path, e.Ann)
	}
}

// PlainCmd prints the JSON payload with all metadata removed. Extended
// types stay in their JSON-safe projection (dates as strings, sets as
// arrays, and so on).
type PlainCmd struct {
	inputArgs
}

func (c *PlainCmd) Run() error {
	data, err := c.read()
	if err != nil {
		return err
	}
	env, err := superjson.ParseEnvelope(data)
	if err != nil {
		return err
	}
	out, err := superjson.EmitPlain(env.JSON)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// FmtCmd decodes an envelope and re-encodes it canonically: compact
// output, members in canonical order, metadata regenerated.
type FmtCmd struct {
	inputArgs
}

func (c *FmtCmd) Run() error {
	data, err := c.read()
	if err != nil {
		return err
	}
	env, err := superjson.ParseEnvelope(data)
	if err != nil {
		return err
	}
	v, err := superjson.Decode(env)
	if err != nil {
		return err
	}
	out, err := superjson.EncodeToString(v)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("superjson"),
		kong.Description("Inspect and rewrite superjson wire envelopes."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
