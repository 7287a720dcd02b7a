package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-splitjson/internal/config"
	"github.com/goliatone/go-splitjson/pkg/model"
	"github.com/goliatone/go-splitjson/pkg/render"
	"github.com/goliatone/go-splitjson/pkg/renderers/tui"
	"github.com/goliatone/go-splitjson/pkg/widget"
)

func main() {
	mode := flag.String("mode", "encode", "encode, decode or edit")
	name := flag.String("name", "data", "field name used as the path root")
	input := flag.String("in", "-", "input file (stdin when - or empty)")
	output := flag.String("out", "", "output file (stdout if empty)")
	format := flag.String("format", "", "encode: html or fields; edit: json, form or pretty")
	configPath := flag.String("config", "", "YAML or TOML config file")
	debug := flag.Bool("debug", false, "append a source dump to HTML output")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Printf("dotenv: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *debug {
		cfg.Debug = true
	}

	data, err := readInput(*input)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	out, err := run(context.Background(), cfg, *mode, *name, *format, filepath.Ext(*input), data)
	if err != nil {
		log.Fatalf("%s: %v", *mode, err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Output written to %s\n", *output)
		return
	}
	fmt.Println(string(out))
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func run(ctx context.Context, cfg config.Config, mode, name, format, ext string, data []byte) ([]byte, error) {
	w, err := widget.New(cfg.WidgetOptions()...)
	if err != nil {
		return nil, err
	}

	switch mode {
	case "encode":
		value, err := parseDocument(ext, data)
		if err != nil {
			log.Printf("input is not a valid document, using {}: %v", err)
			value = model.Object()
		}
		switch format {
		case "", "html":
			return w.RenderValue(ctx, name, value)
		case "fields":
			return []byte(describeFields(w.Codec().Encode(name, value))), nil
		default:
			return nil, fmt.Errorf("unknown encode format %q", format)
		}
	case "decode":
		form, err := render.ParseForm(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, err
		}
		text, err := w.ValueFromForm(name, form)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	case "edit":
		value, err := parseDocument(ext, data)
		if err != nil {
			log.Printf("input is not a valid document, using {}: %v", err)
			value = model.Object()
		}
		editor, err := tui.New(
			tui.WithCodec(w.Codec()),
			tui.WithOutputFormat(tui.OutputFormat(format)),
			tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
		)
		if err != nil {
			return nil, err
		}
		return editor.Render(ctx, render.Document{
			Name:   name,
			Layout: w.Codec().Encode(name, value),
			Source: value,
		}, render.RenderOptions{})
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// parseDocument reads YAML for .yaml/.yml inputs and JSON otherwise. Empty
// input and null both become an empty object.
func parseDocument(ext string, data []byte) (model.Value, error) {
	if strings.TrimSpace(string(data)) == "" {
		return model.Object(), nil
	}
	var (
		value model.Value
		err   error
	)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		value, err = model.ParseYAML(data)
	default:
		value, err = model.ParseJSON(data)
	}
	if err != nil {
		return model.Value{}, err
	}
	if value.IsNull() {
		return model.Object(), nil
	}
	return value, nil
}

func describeFields(layout model.Layout) string {
	var b strings.Builder
	for _, field := range layout.Fields {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", field.Path, field.Kind, field.Text())
	}
	return strings.TrimSuffix(b.String(), "\n")
}
