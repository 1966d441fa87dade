package descriptor

import "strings"

// Scalar represents a well known JDK leaf type
type Scalar struct {
	Kind  Kind
	Base  string
	Boxed bool
}

const (
	BaseInt     = "int"
	BaseLong    = "long"
	BaseShort   = "short"
	BaseByte    = "byte"
	BaseDouble  = "double"
	BaseFloat   = "float"
	BaseBoolean = "boolean"
	BaseChar    = "char"
	BaseString  = "String"
)

var scalars = map[string]*Scalar{}

func registerScalar(kind Kind, base string, boxed bool, names ...string) {
	for _, name := range names {
		scalars[name] = &Scalar{Kind: kind, Base: base, Boxed: boxed}
	}
}

func init() {
	registerScalar(KindPrimitive, BaseInt, false, "int")
	registerScalar(KindPrimitive, BaseInt, true, "Integer", "java.lang.Integer")
	registerScalar(KindPrimitive, BaseLong, false, "long")
	registerScalar(KindPrimitive, BaseLong, true, "Long", "java.lang.Long")
	registerScalar(KindPrimitive, BaseShort, false, "short")
	registerScalar(KindPrimitive, BaseShort, true, "Short", "java.lang.Short")
	registerScalar(KindPrimitive, BaseByte, false, "byte")
	registerScalar(KindPrimitive, BaseByte, true, "Byte", "java.lang.Byte")
	registerScalar(KindPrimitive, BaseDouble, false, "double")
	registerScalar(KindPrimitive, BaseDouble, true, "Double", "java.lang.Double")
	registerScalar(KindPrimitive, BaseFloat, false, "float")
	registerScalar(KindPrimitive, BaseFloat, true, "Float", "java.lang.Float")
	registerScalar(KindPrimitive, BaseBoolean, false, "boolean")
	registerScalar(KindPrimitive, BaseBoolean, true, "Boolean", "java.lang.Boolean")
	registerScalar(KindPrimitive, BaseChar, false, "char")
	registerScalar(KindPrimitive, BaseChar, true, "Character", "java.lang.Character")
	registerScalar(KindString, BaseString, true, "String", "java.lang.String", "CharSequence", "java.lang.CharSequence")
	//value types carried as text
	registerScalar(KindString, "BigDecimal", true, "BigDecimal", "java.math.BigDecimal")
	registerScalar(KindString, "BigInteger", true, "BigInteger", "java.math.BigInteger")
	registerScalar(KindString, "Date", true, "java.util.Date", "java.sql.Date", "java.sql.Timestamp")
	registerScalar(KindString, "LocalDate", true, "LocalDate", "java.time.LocalDate")
	registerScalar(KindString, "LocalDateTime", true, "LocalDateTime", "java.time.LocalDateTime")
	registerScalar(KindString, "LocalTime", true, "LocalTime", "java.time.LocalTime")
	registerScalar(KindString, "Instant", true, "Instant", "java.time.Instant")
}

// LookupScalar returns scalar for supplied type name or nil
func LookupScalar(name string) *Scalar {
	return scalars[strings.TrimSpace(name)]
}

// IsIntegral returns true for integral numeric bases
func IsIntegral(base string) bool {
	switch base {
	case BaseInt, BaseLong, BaseShort, BaseByte:
		return true
	}
	return false
}

// IsFloating returns true for floating point bases
func IsFloating(base string) bool {
	return base == BaseDouble || base == BaseFloat
}

// IsObject returns true for java.lang.Object
func IsObject(name string) bool {
	return name == "Object" || name == "java.lang.Object"
}
