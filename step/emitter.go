package step

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Emit writes m as Part 21 text: the header entries and then the data
// records, one per line, records in ascending id order. The output is
// deterministic for a given model.
func Emit(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("ISO-10303-21;\n\n")
	bw.WriteString("HEADER;\n")
	for _, h := range m.Header {
		var sb strings.Builder
		writeValue(&sb, h)
		bw.WriteString(sb.String())
		bw.WriteString(";\n")
	}
	bw.WriteString("\nENDSEC;\n\n")
	bw.WriteString("DATA;\n")
	for _, e := range m.Entities() {
		fmt.Fprintf(bw, "#%d=%s;\n", e.ID, e.Def())
	}
	bw.WriteString("ENDSEC;\n\n")
	bw.WriteString("END-ISO-10303-21;\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("step: write output: %w", err)
	}
	return nil
}

// EmitString renders m as Part 21 text in memory.
func EmitString(m *Model) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = Emit(&sb, m)
	return sb.String()
}

// Def renders the record body: TYPE(args) for simple records, the
// juxtaposed (T1(...)T2(...)) form for complex instances. The leading
// #id= and trailing semicolon are the emitter's business.
func (e *Entity) Def() string {
	var sb strings.Builder
	if e.Complex() {
		sb.WriteByte('(')
		for _, part := range e.Args {
			writeValue(&sb, part)
		}
		sb.WriteByte(')')
	} else {
		sb.WriteString(e.Type)
		writeList(&sb, e.Args)
	}
	return sb.String()
}

func writeList(sb *strings.Builder, l List) {
	sb.WriteByte('(')
	for i, v := range l {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeValue(sb, v)
	}
	sb.WriteByte(')')
}

func writeValue(sb *strings.Builder, v Value) {
	switch val := v.(type) {
	case Integer:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case Real:
		sb.WriteString(formatReal(float64(val)))
	case String:
		writeString(sb, string(val))
	case Enum:
		sb.WriteByte('.')
		sb.WriteString(string(val))
		sb.WriteByte('.')
	case Ref:
		sb.WriteByte('#')
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case Omitted:
		sb.WriteByte('$')
	case Redeclared:
		sb.WriteByte('*')
	case Binary:
		sb.WriteByte('"')
		sb.WriteString(string(val))
		sb.WriteByte('"')
	case List:
		writeList(sb, val)
	case Typed:
		sb.WriteString(val.Name)
		writeList(sb, val.Args)
	}
}

// formatReal renders the shortest decimal representation that parses
// back to the same float64, with the decimal point Part 21 requires.
func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if strings.ContainsRune(s, '.') {
		return s
	}
	if i := strings.IndexByte(s, 'E'); i >= 0 {
		return s[:i] + "." + s[i:]
	}
	return s + "."
}

// writeString quotes s, doubling embedded quotes. Control bytes are
// hex-escaped; bytes above 0x7F pass through so UTF-8 text survives.
func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			sb.WriteString("''")
		case c < 0x20 || c == 0x7F:
			fmt.Fprintf(sb, `\X\%02X`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
}
