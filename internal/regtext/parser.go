package regtext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry/codec"
)

// ErrMissingHeader is returned when the input does not start with a .reg
// header line.
var ErrMissingHeader = errors.New("regtext: missing header")

// Parse reads .reg text and returns the changes it describes, in file order.
// UTF-8 input with or without a BOM and UTF-16 input with a BOM (as regedit
// writes it) are accepted.
func Parse(r io.Reader) ([]Op, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), ScannerMaxLineSize)

	p := parser{seen: make(map[string]bool)}
	var logical strings.Builder
	lineNo, start := 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimRight(scanner.Text(), CR))
		if logical.Len() == 0 {
			start = lineNo
		}
		if cont, ok := strings.CutSuffix(line, Backslash); ok && !strings.HasPrefix(line, KeyOpenBracket) &&
			!strings.HasPrefix(line, CommentPrefix) {
			logical.WriteString(cont)
			continue
		}
		logical.WriteString(line)
		if err := p.line(logical.String()); err != nil {
			return nil, fmt.Errorf("regtext: line %d: %w", start, err)
		}
		logical.Reset()
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("regtext: %w", err)
	}
	if logical.Len() > 0 {
		if err := p.line(logical.String()); err != nil {
			return nil, fmt.Errorf("regtext: line %d: %w", start, err)
		}
	}
	if !p.header {
		return nil, ErrMissingHeader
	}
	return p.ops, nil
}

type parser struct {
	header  bool
	current string
	seen    map[string]bool
	ops     []Op
}

func (p *parser) line(line string) error {
	if line == "" || strings.HasPrefix(line, CommentPrefix) {
		return nil
	}
	if !p.header {
		if line != RegFileHeader && line != RegFileHeaderV4 {
			return ErrMissingHeader
		}
		p.header = true
		return nil
	}

	if strings.HasPrefix(line, KeyOpenBracket) {
		if !strings.HasSuffix(line, KeyCloseBracket) {
			return fmt.Errorf("malformed section %q", line)
		}
		section := strings.TrimSuffix(strings.TrimPrefix(line, KeyOpenBracket), KeyCloseBracket)
		if path, ok := strings.CutPrefix(section, DeleteKeyPrefix); ok {
			p.ops = append(p.ops, DeleteKey{Path: strings.TrimSpace(path)})
			p.current = ""
			return nil
		}
		p.current = section
		if key := strings.ToLower(section); !p.seen[key] {
			p.seen[key] = true
			p.ops = append(p.ops, CreateKey{Path: section})
		}
		return nil
	}

	if p.current == "" {
		return fmt.Errorf("value outside of a key section: %q", line)
	}
	op, err := parseValueLine(p.current, line)
	if err != nil {
		return err
	}
	p.ops = append(p.ops, op)
	return nil
}

func parseValueLine(path, line string) (Op, error) {
	if payload, ok := strings.CutPrefix(line, DefaultValuePrefix); ok {
		return parseValue(path, "", payload)
	}
	if !strings.HasPrefix(line, Quote) {
		return nil, fmt.Errorf("malformed value line %q", line)
	}
	end := findClosingQuote(line)
	if end < 0 {
		return nil, fmt.Errorf("unterminated value name in %q", line)
	}
	name := unescapeRegString(line[1:end])
	payload, ok := strings.CutPrefix(line[end+1:], ValueAssignment)
	if !ok {
		return nil, fmt.Errorf("missing '=' in %q", line)
	}
	return parseValue(path, name, payload)
}

func parseValue(path, name, payload string) (Op, error) {
	payload = strings.TrimSpace(payload)
	if payload == DeleteValueToken {
		return DeleteValue{Path: path, Name: name}, nil
	}

	v, err := parseData(payload)
	if err != nil {
		return nil, err
	}
	return SetValue{Path: path, Name: name, Value: v}, nil
}

func parseData(payload string) (codec.Value, error) {
	switch {
	case strings.HasPrefix(payload, Quote):
		if len(payload) < 2 || findClosingQuote(payload) != len(payload)-1 {
			return codec.Value{}, fmt.Errorf("unterminated string %s", payload)
		}
		return codec.String(unescapeRegString(payload[1 : len(payload)-1])), nil

	case strings.HasPrefix(payload, DWORDPrefix):
		hexPart := payload[len(DWORDPrefix):]
		if len(hexPart) != DWORDHexLength {
			return codec.Value{}, fmt.Errorf("invalid dword %q", payload)
		}
		n, err := strconv.ParseUint(hexPart, 16, 32)
		if err != nil {
			return codec.Value{}, fmt.Errorf("invalid dword %q", payload)
		}
		return codec.Int32(int32(uint32(n))), nil

	case strings.HasPrefix(payload, HexPrefix), strings.HasPrefix(payload, HexTypeOpen):
		tag, err := hexType(payload)
		if err != nil {
			return codec.Value{}, err
		}
		data, err := parseHexBytes(payload)
		if err != nil {
			return codec.Value{}, err
		}
		return codec.Decode(tag, data, false)
	}
	return codec.Value{}, fmt.Errorf("unsupported value %q", payload)
}

// hexType returns the registry type of a hex: or hex(N): payload.
func hexType(payload string) (types.RegType, error) {
	if strings.HasPrefix(payload, HexPrefix) {
		return types.REG_BINARY, nil
	}
	end := strings.Index(payload, ")")
	if end < 0 {
		return 0, fmt.Errorf("malformed hex type in %q", payload)
	}
	n, err := strconv.ParseUint(payload[len(HexTypeOpen):end], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed hex type in %q", payload)
	}
	return types.RegType(n), nil
}
