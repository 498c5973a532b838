package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/idl-codec/accounts"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// parseValue reads a JSON value, from a file when prefixed with @. Numbers
// stay json.Number so 64 and 128-bit integers keep their precision.
func parseValue(s string) (any, error) {
	if strings.HasPrefix(s, "@") {
		data, err := os.ReadFile(s[1:])
		if err != nil {
			return nil, fmt.Errorf("read value: %w", err)
		}
		s = string(data)
	}
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("missing -value")
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse value: %w", err)
	}
	return v, nil
}

// parseData accepts hex (optionally 0x-prefixed) or base64:<data>.
func parseData(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("missing -data")
	}
	if rest, ok := strings.CutPrefix(s, "base64:"); ok {
		b, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("parse base64 data: %w", err)
		}
		return b, nil
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse hex data: %w", err)
	}
	return b, nil
}

var cborMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	mode, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// render formats a decoded value. CBOR output is hex encoded.
func render(v any, format string) (string, error) {
	switch format {
	case "", "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		if err := enc.Close(); err != nil {
			return "", err
		}
		return strings.TrimRight(buf.String(), "\n"), nil
	case "cbor":
		out, err := cborMode.Marshal(v)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(out), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

func accountLine(coder *accounts.Coder, name string) string {
	disc, _ := coder.AccountDiscriminator(name)
	size, err := coder.Size(name)
	sizeStr := fmt.Sprintf("%d bytes", size)
	if err != nil {
		sizeStr = "size unknown"
	} else if fixed, _ := coder.IsFixedSize(name); !fixed {
		sizeStr = fmt.Sprintf(">= %d bytes", size)
	}
	return fmt.Sprintf("%s [%s] %s", name, hex.EncodeToString(disc), sizeStr)
}

func listAccounts(coder *accounts.Coder, styled bool) string {
	var b strings.Builder
	schema := coder.IDL()
	header := "Accounts"
	if schema.Name != "" {
		header = schema.Name + " accounts"
	}
	if styled {
		header = titleStyle.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\n")

	for _, name := range coder.Names() {
		line := accountLine(coder, name)
		body := ""
		if def, ok := schema.TypeDef(name); ok {
			body = def.Type.String()
		}
		if styled {
			line = nameStyle.Render(line)
			body = typeStyle.Render(body)
		}
		fmt.Fprintf(&b, "  %s\n      %s\n", line, body)
	}

	for _, c := range coder.Collisions() {
		msg := fmt.Sprintf("discriminator of %s overlaps %s", c.Second, c.First)
		if styled {
			msg = errorStyle.Render(msg)
		}
		fmt.Fprintf(&b, "  warning: %s\n", msg)
	}
	return b.String()
}
