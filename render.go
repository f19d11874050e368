package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bradfitz/iter"
	"github.com/fxamacker/cbor/v2"
	"github.com/huandu/xstrings"
	"gopkg.in/yaml.v3"

	"github.com/OLUWAMUYIWA/bdecode/formats"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatCBOR = "cbor"
)

var formatNames = []string{formatText, formatJSON, formatYAML, formatCBOR}

func knownFormat(f string) bool {
	for _, n := range formatNames {
		if n == f {
			return true
		}
	}
	return false
}

// renderer writes one decoded tree.
type renderer func(w io.Writer, v formats.Value) error

func newRenderer(cfg OutputConfig) (renderer, error) {
	switch cfg.Format {
	case formatText:
		return func(w io.Writer, v formats.Value) error {
			return renderText(w, v, cfg.Truncate)
		}, nil
	case formatJSON:
		return renderJSON, nil
	case formatYAML:
		return renderYAML, nil
	case formatCBOR:
		return renderCBOR, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
}

// renderText prints an indented tree. Dictionaries come out in key order.
func renderText(w io.Writer, v formats.Value, truncate int) error {
	var b strings.Builder
	writeText(&b, v, 0, truncate)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeText(b *strings.Builder, v formats.Value, depth, truncate int) {
	switch v := v.(type) {
	case formats.List:
		if len(v) == 0 {
			b.WriteString("[]\n")
			return
		}
		if depth > 0 {
			b.WriteByte('\n')
		}
		for _, e := range v {
			indent(b, depth)
			b.WriteString("-")
			writeChild(b, e, depth, truncate)
		}
	case formats.Dictionary:
		if v.Len() == 0 {
			b.WriteString("{}\n")
			return
		}
		if depth > 0 {
			b.WriteByte('\n')
		}
		v.Range(func(k string, e formats.Value) bool {
			indent(b, depth)
			b.WriteString(keyText(k))
			b.WriteString(":")
			writeChild(b, e, depth, truncate)
			return true
		})
	default:
		b.WriteString(scalarText(v, truncate))
		b.WriteByte('\n')
	}
}

// writeChild puts scalars and empty containers on the same line as their key or dash.
func writeChild(b *strings.Builder, v formats.Value, depth, truncate int) {
	switch v := v.(type) {
	case formats.List:
		if len(v) > 0 {
			writeText(b, v, depth+1, truncate)
			return
		}
	case formats.Dictionary:
		if v.Len() > 0 {
			writeText(b, v, depth+1, truncate)
			return
		}
	}
	b.WriteByte(' ')
	writeText(b, v, depth+1, truncate)
}

func indent(b *strings.Builder, depth int) {
	for range iter.N(depth) {
		b.WriteString("  ")
	}
}

func scalarText(v formats.Value, truncate int) string {
	switch v := v.(type) {
	case formats.Integer:
		return v.String()
	case formats.ByteString:
		s := string(v)
		if truncate > 0 && xstrings.Len(s) > truncate {
			return strconv.Quote(xstrings.Slice(s, 0, truncate)) + fmt.Sprintf("... (%d bytes)", len(s))
		}
		return strconv.Quote(s)
	default:
		return fmt.Sprint(v)
	}
}

func keyText(k string) string {
	if k == "" || !utf8.ValidString(k) || strings.ContainsAny(k, ":\"\n\t") {
		return strconv.Quote(k)
	}
	return k
}

func renderJSON(w io.Writer, v formats.Value) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(formats.Interface(v))
}

func renderYAML(w io.Writer, v formats.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(formats.Interface(v)); err != nil {
		return err
	}
	return enc.Close()
}

// cborMode uses Core Deterministic Encoding, so the same tree always gives the same bytes.
var cborMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("bdecode: CBOR encoder initialization failed: " + err.Error())
	}
	return em
}()

func renderCBOR(w io.Writer, v formats.Value) error {
	data, err := cborMode.Marshal(formats.Interface(v))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
