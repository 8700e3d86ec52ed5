package shape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

// Error describes the first place a value diverged from its shape.
type Error struct {
	// Path is the dotted field path, e.g. "raw.outputs[0].denom". Empty for
	// the root value.
	Path     string
	Expected string
	Actual   string
}

func (e *Error) Error() string {
	where := e.Path
	if where == "" {
		where = "(root)"
	}
	return fmt.Sprintf("shape: %s: expected %s, got %s", where, e.Expected, e.Actual)
}

func mismatch(p path, s Shape, v wirecodec.Value) *Error {
	return &Error{
		Path:     p.String(),
		Expected: s.Describe(),
		Actual:   string(wirecodec.KindOf(v)),
	}
}

// path grows as validation descends. Segments are field names or
// pre-formatted subscripts ("[3]", "[\"6D\"]").
type path []string

func (p path) field(name string) path {
	return p.with(name)
}

func (p path) index(i int) path {
	return p.with("[" + strconv.Itoa(i) + "]")
}

func (p path) key(k string) path {
	return p.with("[" + strconv.Quote(k) + "]")
}

func (p path) with(seg string) path {
	out := make(path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

func (p path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			sb.WriteByte('.')
		}
		sb.WriteString(seg)
	}
	return sb.String()
}
