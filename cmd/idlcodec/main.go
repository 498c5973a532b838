package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/idl-codec/accounts"
	"github.com/wippyai/idl-codec/idl"
	"github.com/wippyai/idl-codec/idl/witidl"
	"github.com/wippyai/idl-codec/layout"
)

type options struct {
	idlFile  string
	witFile  string
	accounts string
	encode   string
	value    string
	decode   string
	data     string
	size     string
	filter   string
	extra    string
	format   string
	list     bool
	sniff    bool
	verbose  bool
}

func main() {
	var (
		opts        options
		interactive bool
	)
	flag.StringVar(&opts.idlFile, "idl", "", "Path to IDL file (.json, .yaml)")
	flag.StringVar(&opts.witFile, "wit", "", "Path to WIT resolve JSON (alternative to -idl)")
	flag.StringVar(&opts.accounts, "accounts", "", "WIT type names to treat as accounts (comma-separated)")
	flag.BoolVar(&opts.list, "list", false, "List accounts and exit")
	flag.StringVar(&opts.encode, "encode", "", "Account to encode")
	flag.StringVar(&opts.value, "value", "", "Value to encode as JSON, or @file")
	flag.StringVar(&opts.decode, "decode", "", "Account to decode")
	flag.StringVar(&opts.data, "data", "", "Account data as hex, or base64:...")
	flag.BoolVar(&opts.sniff, "sniff", false, "Decode -data as whichever account matches its discriminator")
	flag.StringVar(&opts.size, "size", "", "Print the static size of an account")
	flag.StringVar(&opts.filter, "filter", "", "Print query filters matching an account")
	flag.StringVar(&opts.extra, "extra", "", "Hex bytes appended to the memcmp filter")
	flag.StringVar(&opts.format, "format", "json", "Output format for decoded values: json, yaml, cbor")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()

	if opts.idlFile == "" && opts.witFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: idlcodec -idl <file> -list")
		fmt.Fprintln(os.Stderr, "       idlcodec -idl <file> -encode Name -value '{...}'")
		fmt.Fprintln(os.Stderr, "       idlcodec -idl <file> -decode Name -data <hex>")
		fmt.Fprintln(os.Stderr, "       idlcodec -idl <file> -sniff -data <hex>")
		fmt.Fprintln(os.Stderr, "       idlcodec -idl <file> -size Name | -filter Name [-extra hex]")
		fmt.Fprintln(os.Stderr, "       idlcodec -wit <resolve.json> -accounts a,b ...")
		fmt.Fprintln(os.Stderr, "       idlcodec -idl <file> -i  (interactive mode)")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if opts.verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}
	layout.SetLogger(logger)
	accounts.SetLogger(logger)

	coder, err := loadCoder(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(coder, sourceName(opts)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(coder, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func sourceName(opts options) string {
	if opts.idlFile != "" {
		return opts.idlFile
	}
	return opts.witFile
}

func loadCoder(opts options) (*accounts.Coder, error) {
	var (
		schema *idl.IDL
		err    error
	)
	if opts.idlFile != "" {
		schema, err = idl.ParseFile(opts.idlFile)
	} else {
		f, openErr := os.Open(opts.witFile)
		if openErr != nil {
			return nil, fmt.Errorf("read file: %w", openErr)
		}
		defer f.Close()
		schema, err = witidl.Load(f, splitList(opts.accounts))
	}
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return accounts.New(schema)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func run(coder *accounts.Coder, opts options) error {
	styled := term.IsTerminal(int(os.Stdout.Fd()))

	switch {
	case opts.list:
		fmt.Print(listAccounts(coder, styled))

	case opts.encode != "":
		value, err := parseValue(opts.value)
		if err != nil {
			return err
		}
		data, err := coder.Encode(opts.encode, value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", opts.encode, err)
		}
		fmt.Println(hex.EncodeToString(data))

	case opts.decode != "" || opts.sniff:
		data, err := parseData(opts.data)
		if err != nil {
			return err
		}
		name := opts.decode
		var value any
		if opts.sniff {
			name, value, err = coder.DecodeAnyNamed(data)
		} else {
			value, err = coder.Decode(name, data)
		}
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		out, err := render(value, opts.format)
		if err != nil {
			return err
		}
		if opts.sniff {
			fmt.Fprintf(os.Stderr, "Account: %s\n", name)
		}
		fmt.Println(out)

	case opts.size != "":
		n, err := coder.Size(opts.size)
		if err != nil {
			return err
		}
		fixed, err := coder.IsFixedSize(opts.size)
		if err != nil {
			return err
		}
		if fixed {
			fmt.Printf("%d\n", n)
		} else {
			fmt.Printf("%d (minimum, variable length)\n", n)
		}

	case opts.filter != "":
		filters, err := buildFilters(coder, opts.filter, opts.extra)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(filters, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

	default:
		fmt.Print(listAccounts(coder, styled))
	}
	return nil
}

func buildFilters(coder *accounts.Coder, name, extraHex string) ([]accounts.Filter, error) {
	var extra [][]byte
	if extraHex != "" {
		b, err := hex.DecodeString(strings.TrimPrefix(extraHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse -extra: %w", err)
		}
		extra = append(extra, b)
	}
	m, err := coder.Memcmp(name, extra...)
	if err != nil {
		return nil, err
	}
	filters := []accounts.Filter{m.Filter()}

	fixed, err := coder.IsFixedSize(name)
	if err != nil {
		return nil, err
	}
	if fixed {
		size, err := coder.DataSize(name)
		if err != nil {
			return nil, err
		}
		filters = append(filters, size)
	}
	return filters, nil
}
