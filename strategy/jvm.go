package strategy

import (
	"strings"

	"github.com/viant/invoke/command"
	"github.com/viant/invoke/descriptor"
)

// ParameterTypes returns JVM method descriptor of request parameters, i.e. JLjava/lang/String;
func ParameterTypes(request *command.Request) string {
	builder := strings.Builder{}
	for _, parameter := range request.Parameters {
		builder.WriteString(JVMType(parameter))
	}
	return builder.String()
}

// JVMType returns parameter JVM type, type name is used when parameter was not resolved
func JVMType(parameter *command.Parameter) string {
	if parameter.Descriptor != nil {
		return parameter.Descriptor.JVMType()
	}
	name := parameter.TypeName
	dims := ""
	for strings.HasSuffix(name, "[]") {
		dims += "["
		name = strings.TrimSuffix(name, "[]")
	}
	if scalar := descriptor.NewScalar(name); scalar != nil {
		return dims + scalar.JVMType()
	}
	return dims + descriptor.NewUnknown(name).JVMType()
}
