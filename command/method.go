package command

import (
	"strings"

	"github.com/viant/invoke/descriptor/signature"
)

// Method represents remote method signature
type Method struct {
	Service        string   `json:"service" yaml:"service"`
	Name           string   `json:"name" yaml:"name"`
	ParameterTypes []string `json:"parameterTypes,omitempty" yaml:"parameterTypes,omitempty"`
	ParameterNames []string `json:"parameterNames,omitempty" yaml:"parameterNames,omitempty"`
	ReturnType     string   `json:"returnType,omitempty" yaml:"returnType,omitempty"`
}

// ParseMethod creates method from declaration, i.e. com.example.UserService.find(List<Row> rows, int limit)
func ParseMethod(declaration string) (*Method, error) {
	parsed, err := signature.ParseMethod(declaration)
	if err != nil {
		return nil, err
	}
	ret := &Method{Service: parsed.Owner, Name: parsed.Name, ParameterNames: parsed.ParamNames}
	for _, param := range parsed.Params {
		ret.ParameterTypes = append(ret.ParameterTypes, param.String())
	}
	return ret, nil
}

// Key returns Service.method key
func (m *Method) Key() string {
	return m.Service + "." + m.Name
}

// Arity returns declared parameter count
func (m *Method) Arity() int {
	return len(m.ParameterTypes)
}

// FullSignature returns Ret Service.method(T1 n1, T2 n2)
func (m *Method) FullSignature() string {
	builder := strings.Builder{}
	returnType := m.ReturnType
	if returnType == "" {
		returnType = "void"
	}
	builder.WriteString(returnType)
	builder.WriteByte(' ')
	builder.WriteString(m.Key())
	builder.WriteByte('(')
	for i, paramType := range m.ParameterTypes {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(paramType)
		if i < len(m.ParameterNames) && m.ParameterNames[i] != "" {
			builder.WriteByte(' ')
			builder.WriteString(m.ParameterNames[i])
		}
	}
	builder.WriteByte(')')
	return builder.String()
}
