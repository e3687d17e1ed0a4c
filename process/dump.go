package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"cssr/css"
	"cssr/state"
	"cssr/utils/debug"
)

// Dump prints parsed structure of stylesheets: rule sets with their source
// offsets, selector specificity and declarations.
func Dump(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("dump")

	if cmd.Args().Len() == 0 {
		return errors.New("no input source has been specified")
	}
	if cmd.IsSet("encoding") {
		if err := env.SetCodePage(cmd.String("encoding")); err != nil {
			return err
		}
	}

	opts := dumpOptions{
		expand:   cmd.Bool("expand"),
		contract: cmd.Bool("contract"),
		enc:      env.CodePage,
	}
	return dump(os.Stdout, os.Stdin, cmd.Args().Slice(), opts, log)
}

type dumpOptions struct {
	expand, contract bool
	enc              encoding.Encoding
}

func dump(w io.Writer, stdin io.Reader, names []string, opts dumpOptions, log *zap.Logger) error {
	parser := css.NewParser(log)
	tw := debug.NewTreeWriter()

	for _, name := range names {
		data, err := readSource(name, stdin, opts.enc)
		if err != nil {
			return err
		}
		sheet := parser.Parse(data, name)
		if opts.expand {
			if err := sheet.ExpandShorthand(); err != nil {
				log.Warn("Some rule sets were not expanded", zap.String("source", name), zap.Error(err))
			}
		}
		if opts.contract {
			sheet.CreateShorthand()
		}
		tw.Stylesheet(0, name, sheet)
	}

	_, err := io.WriteString(w, tw.String())
	return err
}

func readSource(name string, stdin io.Reader, enc encoding.Encoding) ([]byte, error) {
	var r io.Reader = stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("unable to open source: %w", err)
		}
		defer f.Close()
		r = f
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read source (%s): %w", name, err)
	}
	return data, nil
}
