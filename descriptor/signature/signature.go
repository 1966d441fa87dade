package signature

import (
	"strings"
)

// Signature represents parsed type signature, i.e. java.util.Map<String, List<Row>>[]
type Signature struct {
	Name     string
	Args     []*Signature
	Dims     int
	Wildcard bool
	Bound    *Signature
	Super    bool
}

// IsWildcard returns true for ? type argument
func (s *Signature) IsWildcard() bool {
	return s.Wildcard
}

// Elem returns signature without array dimensions
func (s *Signature) Elem() *Signature {
	if s.Dims == 0 {
		return s
	}
	ret := *s
	ret.Dims--
	return &ret
}

// SimpleName returns name without package and enclosing class qualifiers
func (s *Signature) SimpleName() string {
	name := s.Name
	if idx := strings.LastIndexAny(name, ".$"); idx != -1 {
		return name[idx+1:]
	}
	return name
}

// String returns normalized signature text
func (s *Signature) String() string {
	builder := strings.Builder{}
	s.write(&builder)
	return builder.String()
}

func (s *Signature) write(builder *strings.Builder) {
	if s.Wildcard {
		builder.WriteByte('?')
		if s.Bound != nil {
			if s.Super {
				builder.WriteString(" super ")
			} else {
				builder.WriteString(" extends ")
			}
			s.Bound.write(builder)
		}
	} else {
		builder.WriteString(s.Name)
	}
	if len(s.Args) > 0 {
		builder.WriteByte('<')
		for i, arg := range s.Args {
			if i > 0 {
				builder.WriteString(", ")
			}
			arg.write(builder)
		}
		builder.WriteByte('>')
	}
	for i := 0; i < s.Dims; i++ {
		builder.WriteString("[]")
	}
}

// Method represents parsed method declaration, i.e. com.example.UserService.find(List<Row> rows, int limit)
type Method struct {
	Owner      string
	Name       string
	Params     []*Signature
	ParamNames []string
}
