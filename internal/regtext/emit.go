package regtext

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry"
	"github.com/joshuapare/regkey/registry/codec"
)

// ExportOptions controls Export output.
type ExportOptions struct {
	// UTF16 writes UTF-16LE with a BOM, as regedit does. The default is UTF-8.
	UTF16 bool
}

// Export writes k and everything below it as .reg text. Values the codec
// cannot represent are written as comments.
func Export(w io.Writer, k *registry.Key, opts ExportOptions) error {
	var enc *transform.Writer
	if opts.UTF16 {
		enc = transform.NewWriter(w, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder())
		w = enc
	}
	bw := bufio.NewWriter(w)

	bw.WriteString(RegFileHeader + CRLF + CRLF)
	err := k.Walk(func(sub *registry.Key, _ int) error {
		return exportKey(bw, sub)
	})
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if enc != nil {
		return enc.Close()
	}
	return nil
}

func exportKey(w *bufio.Writer, k *registry.Key) error {
	w.WriteString(KeyOpenBracket + k.Name() + KeyCloseBracket + CRLF)

	names, err := k.ValueNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		v, err := k.GetValueOptions(name, codec.Value{}, registry.DoNotExpandEnvironmentNames)
		if errors.Is(err, types.ErrUnsupportedType) {
			fmt.Fprintf(w, "%s %s: %v%s", CommentPrefix, name, err, CRLF)
			continue
		}
		if err != nil {
			return err
		}
		if v.IsNull() {
			continue
		}
		if err := emitValue(w, name, v); err != nil {
			return err
		}
	}
	_, err = w.WriteString(CRLF)
	return err
}

func emitValue(w *bufio.Writer, name string, v codec.Value) error {
	prefix := DefaultValuePrefix
	if name != "" {
		prefix = Quote + escapeString(name) + Quote + ValueAssignment
	}
	w.WriteString(prefix)

	switch v.Kind() {
	case codec.KindString:
		s, _ := v.Str()
		w.WriteString(Quote + escapeString(s) + Quote)
	case codec.KindInt32:
		n, _ := v.Int32Value()
		fmt.Fprintf(w, DWORDPrefix+DWORDHexFormat, uint32(n))
	default:
		_, raw, err := codec.Encode(v)
		if err != nil {
			return err
		}
		hexPrefix := HexPrefix
		switch v.Kind() {
		case codec.KindExpandString:
			hexPrefix = HexExpandSZPrefix
		case codec.KindMultiString:
			hexPrefix = HexMultiSZPrefix
		}
		w.WriteString(hexPrefix)
		writeHex(w, raw)
	}
	_, err := w.WriteString(CRLF)
	return err
}

// writeHex writes comma-separated bytes, continuing long runs on indented
// lines that end in a backslash.
func writeHex(w *bufio.Writer, data []byte) {
	for i, b := range data {
		if i > 0 {
			w.WriteString(HexByteSeparator)
			if i%HexBytesPerLine == 0 {
				w.WriteString(Backslash + CRLF + "  ")
			}
		}
		fmt.Fprintf(w, HexByteFormat, b)
	}
}
