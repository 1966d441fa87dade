package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/synth"
	"github.com/viant/invoke/value"
)

func rowType() *descriptor.Descriptor {
	return &descriptor.Descriptor{Kind: descriptor.KindComposite, Name: "com.example.Row", Fields: []*descriptor.Field{
		{Name: "id", Type: descriptor.NewScalar("int")},
		{Name: "name", Type: descriptor.NewScalar("String")},
	}}
}

func statusType() *descriptor.Descriptor {
	return &descriptor.Descriptor{Kind: descriptor.KindEnum, Name: "com.example.Status", EnumValues: []string{"ACTIVE", "INACTIVE"}}
}

func row(id int64, name string) *value.Value {
	return value.NewComposite(
		&value.Field{Name: "id", Value: value.NewLeaf(descriptor.KindPrimitive, id)},
		&value.Field{Name: "name", Value: value.NewLeaf(descriptor.KindString, name)},
	)
}

func TestDecode(t *testing.T) {
	withClass := row(1, "a")
	withClass.Class = "com.example.Row"
	var testCases = []struct {
		description string
		text        string
		descriptor  *descriptor.Descriptor
		expect      *value.Value
	}{
		{description: "composite", text: `{"id":1,"name":"a"}`, descriptor: rowType(), expect: row(1, "a")},
		{description: "field order follows descriptor", text: `{"name":"a","id":1}`, descriptor: rowType(), expect: row(1, "a")},
		{description: "class hint", text: `{"class":"com.example.Row","id":1,"name":"a"}`, descriptor: rowType(), expect: withClass},
		{
			description: "missing nullable field",
			text:        `{"id":1}`,
			descriptor:  rowType(),
			expect: value.NewComposite(
				&value.Field{Name: "id", Value: value.NewLeaf(descriptor.KindPrimitive, int64(1))},
				&value.Field{Name: "name", Value: value.NewNull(descriptor.KindString)},
			),
		},
		{description: "list of rows", text: ` [ {"id":1,"name":"a"}, {"id":2,"name":"b"} ] `, descriptor: descriptor.NewCollection("java.util.List", rowType()), expect: value.NewCollection(row(1, "a"), row(2, "b"))},
		{description: "empty list", text: `[]`, descriptor: descriptor.NewCollection("java.util.List", rowType()), expect: value.NewCollection()},
		{description: "whole float as int", text: `2.0`, descriptor: descriptor.NewScalar("int"), expect: value.NewLeaf(descriptor.KindPrimitive, int64(2))},
		{description: "double", text: `2.5`, descriptor: descriptor.NewScalar("double"), expect: value.NewLeaf(descriptor.KindPrimitive, 2.5)},
		{description: "boxed null", text: `null`, descriptor: descriptor.NewScalar("Integer"), expect: value.NewNull(descriptor.KindPrimitive)},
		{description: "char", text: `"x"`, descriptor: descriptor.NewScalar("char"), expect: value.NewLeaf(descriptor.KindPrimitive, "x")},
		{description: "enum", text: `"INACTIVE"`, descriptor: statusType(), expect: value.NewLeaf(descriptor.KindEnum, "INACTIVE")},
		{
			description: "map object form",
			text:        `{"a":1,"b":2}`,
			descriptor:  descriptor.NewMap("java.util.Map", descriptor.NewScalar("String"), descriptor.NewScalar("Integer")),
			expect: value.NewMap(
				&value.Entry{Key: value.NewLeaf(descriptor.KindString, "a"), Value: value.NewLeaf(descriptor.KindPrimitive, int64(1))},
				&value.Entry{Key: value.NewLeaf(descriptor.KindString, "b"), Value: value.NewLeaf(descriptor.KindPrimitive, int64(2))},
			),
		},
		{
			description: "map numeric keys",
			text:        `{"7":"x"}`,
			descriptor:  descriptor.NewMap("java.util.Map", descriptor.NewScalar("Long"), descriptor.NewScalar("String")),
			expect:      value.NewMap(&value.Entry{Key: value.NewLeaf(descriptor.KindPrimitive, int64(7)), Value: value.NewLeaf(descriptor.KindString, "x")}),
		},
		{
			description: "map pair form",
			text:        `[{"key":{"id":1,"name":"a"},"value":true}]`,
			descriptor:  descriptor.NewMap("java.util.Map", rowType(), descriptor.NewScalar("boolean")),
			expect:      value.NewMap(&value.Entry{Key: row(1, "a"), Value: value.NewLeaf(descriptor.KindPrimitive, true)}),
		},
		{description: "unknown keeps raw text", text: `{"a":[1, 2]}`, descriptor: descriptor.NewUnknown(""), expect: &value.Value{Kind: descriptor.KindUnknown, Raw: `{"a":[1, 2]}`}},
	}
	for _, testCase := range testCases {
		actual, err := Decode([]byte(testCase.text), testCase.descriptor)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.True(t, value.Equal(testCase.expect, actual), testCase.description)
	}
}

func TestDecode_Mismatch(t *testing.T) {
	rows := descriptor.NewCollection("java.util.List", rowType())
	var testCases = []struct {
		description string
		text        string
		descriptor  *descriptor.Descriptor
		path        string
		expected    string
		found       string
	}{
		{description: "string for int", text: `{"id":"x","name":"a"}`, descriptor: rowType(), path: "id", expected: "primitive(int)", found: "string"},
		{description: "nested item", text: `[{"id":1},{"id":true}]`, descriptor: rows, path: "[1].id", expected: "primitive(int)", found: "boolean"},
		{description: "object for list", text: `{}`, descriptor: rows, path: "", expected: "collection", found: "object"},
		{description: "unknown field", text: `{"id":1,"extra":2}`, descriptor: rowType(), path: "extra", expected: "absent", found: "number"},
		{description: "missing primitive", text: `{"name":"a"}`, descriptor: rowType(), path: "id", expected: "primitive(int)", found: "absent"},
		{description: "null primitive", text: `null`, descriptor: descriptor.NewScalar("int"), path: "", expected: "primitive(int)", found: "null"},
		{description: "int overflow", text: `3000000000`, descriptor: descriptor.NewScalar("int"), path: "", expected: "primitive(int)", found: "number"},
		{description: "long overflow", text: `9223372036854775808`, descriptor: descriptor.NewScalar("long"), path: "", expected: "primitive(long)", found: "number"},
		{description: "long underflow", text: `-9223372036854775809`, descriptor: descriptor.NewScalar("long"), path: "", expected: "primitive(long)", found: "number"},
		{description: "exponent long overflow", text: `9.3e18`, descriptor: descriptor.NewScalar("long"), path: "", expected: "primitive(long)", found: "number"},
		{description: "fraction for long", text: `1.5`, descriptor: descriptor.NewScalar("long"), path: "", expected: "primitive(long)", found: "number"},
		{description: "unknown enum literal", text: `"DELETED"`, descriptor: statusType(), path: "", expected: "enum(com.example.Status)", found: "string"},
		{
			description: "map value",
			text:        `{"a":"x"}`,
			descriptor:  descriptor.NewMap("java.util.Map", descriptor.NewScalar("String"), descriptor.NewScalar("int")),
			path:        `["a"]`, expected: "primitive(int)", found: "string",
		},
	}
	for _, testCase := range testCases {
		_, err := Decode([]byte(testCase.text), testCase.descriptor)
		mismatchErr := &MismatchError{}
		if !assert.True(t, errors.As(err, &mismatchErr), testCase.description) {
			continue
		}
		assert.Equal(t, testCase.path, mismatchErr.Path, testCase.description)
		assert.Equal(t, testCase.expected, mismatchErr.Expected, testCase.description)
		assert.Equal(t, testCase.found, mismatchErr.Found, testCase.description)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, text := range []string{``, `{"id":`, `nul`, `@`, `{"id":1,"name":"a"} garbage`, `{"id":1,"name":"a"}}`, `{"id":01,"name":"a"}`} {
		_, err := Decode([]byte(text), rowType())
		assert.NotNil(t, err, text)
	}

	var testCases = []struct {
		description string
		text        string
		descriptor  *descriptor.Descriptor
	}{
		{description: "extra closing brackets", text: `[1,2]]]`, descriptor: descriptor.NewCollection("java.util.List", descriptor.NewScalar("int"))},
		{description: "second scalar", text: `1 2`, descriptor: descriptor.NewScalar("int")},
		{description: "leading zero", text: `0123`, descriptor: descriptor.NewScalar("int")},
		{description: "negative leading zero", text: `-01`, descriptor: descriptor.NewScalar("long")},
		{description: "leading zero double", text: `00.5`, descriptor: descriptor.NewScalar("double")},
		{description: "trailing text after string", text: `"a" "b"`, descriptor: descriptor.NewScalar("String")},
	}
	for _, testCase := range testCases {
		_, err := Decode([]byte(testCase.text), testCase.descriptor)
		codecErr := &Error{}
		assert.True(t, errors.As(err, &codecErr), testCase.description)
	}

	for _, text := range []string{`0`, `-0`, `0.5`, `0e1`} {
		_, err := Decode([]byte(text), descriptor.NewScalar("double"))
		assert.Nil(t, err, text)
	}
	_, err := Decode([]byte(" [1,2]\n"), descriptor.NewCollection("java.util.List", descriptor.NewScalar("int")))
	assert.Nil(t, err)

	_, err = Infer([]byte(`{"a":1} x`))
	assert.NotNil(t, err)
}

func TestDecodeAll(t *testing.T) {
	descriptors := []*descriptor.Descriptor{descriptor.NewScalar("String"), rowType()}
	actual, err := DecodeAll([]byte(`["a", {"id":3,"name":"c"}]`), descriptors)
	require.Nil(t, err)
	require.Len(t, actual, 2)
	assert.True(t, value.Equal(row(3, "c"), actual[1]))

	_, err = DecodeAll([]byte(`["a"]`), descriptors)
	assert.NotNil(t, err)

	_, err = DecodeAll([]byte(`["a", {"id":3,"name":"c"}]]`), descriptors)
	assert.NotNil(t, err)

	_, err = DecodeAll([]byte(`["a", {"id":"3"}]`), descriptors)
	mismatchErr := &MismatchError{}
	require.True(t, errors.As(err, &mismatchErr))
	assert.Equal(t, "[1].id", mismatchErr.Path)
}

func TestEncode(t *testing.T) {
	withClass := row(1, "a")
	withClass.Class = "com.example.Row"
	classField := value.NewComposite(
		&value.Field{Name: "class", Value: value.NewLeaf(descriptor.KindString, "gold")},
		&value.Field{Name: "id", Value: value.NewLeaf(descriptor.KindPrimitive, int64(1))},
	)
	classField.Class = "com.example.Member"
	var testCases = []struct {
		description string
		value       *value.Value
		expect      string
	}{
		{description: "composite", value: row(1, "a\"b"), expect: `{"id":1,"name":"a\"b"}`},
		{description: "class first", value: withClass, expect: `{"class":"com.example.Row","id":1,"name":"a"}`},
		{description: "class field wins", value: classField, expect: `{"class":"gold","id":1}`},
		{description: "null", value: value.NewNull(descriptor.KindComposite), expect: `null`},
		{description: "placeholder", value: value.NewPlaceholder(descriptor.KindCollection), expect: `null`},
		{description: "empty collection", value: value.NewCollection(), expect: `[]`},
		{description: "float", value: value.NewLeaf(descriptor.KindPrimitive, 0.25), expect: `0.25`},
		{
			description: "map leaf keys",
			value:       value.NewMap(&value.Entry{Key: value.NewLeaf(descriptor.KindPrimitive, int64(5)), Value: value.NewLeaf(descriptor.KindPrimitive, false)}),
			expect:      `{"5":false}`,
		},
		{
			description: "map composite keys",
			value:       value.NewMap(&value.Entry{Key: row(1, "a"), Value: value.NewNull(descriptor.KindString)}),
			expect:      `[{"key":{"id":1,"name":"a"},"value":null}]`,
		},
		{description: "unknown raw", value: &value.Value{Kind: descriptor.KindUnknown, Raw: `{"x":1}`}, expect: `{"x":1}`},
	}
	for _, testCase := range testCases {
		actual, err := Encode(testCase.value)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, string(actual), testCase.description)
	}

	_, err := Encode(value.NewCollection(value.NewLeaf(descriptor.KindPrimitive, math.NaN())))
	assert.NotNil(t, err)
}

func TestRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	pageType := &descriptor.Descriptor{Kind: descriptor.KindComposite, Name: "com.example.Page", Fields: []*descriptor.Field{
		{Name: "rows", Type: descriptor.NewCollection("java.util.List", rowType())},
		{Name: "total", Type: descriptor.NewScalar("double")},
		{Name: "status", Type: statusType()},
		{Name: "tags", Type: descriptor.NewMap("java.util.Map", descriptor.NewScalar("String"), descriptor.NewScalar("Long"))},
	}}

	properties.Property("decode of encoded value returns equal value", prop.ForAll(
		func(id int64, name string, total float64, active bool) bool {
			status := "ACTIVE"
			if !active {
				status = "INACTIVE"
			}
			page := value.NewComposite(
				&value.Field{Name: "rows", Value: value.NewCollection(row(id%math.MaxInt32, name), row(0, ""))},
				&value.Field{Name: "total", Value: value.NewLeaf(descriptor.KindPrimitive, total)},
				&value.Field{Name: "status", Value: value.NewLeaf(descriptor.KindEnum, status)},
				&value.Field{Name: "tags", Value: value.NewMap(&value.Entry{Key: value.NewLeaf(descriptor.KindString, name), Value: value.NewLeaf(descriptor.KindPrimitive, id)})},
			)
			text, err := Encode(page)
			if err != nil {
				return false
			}
			decoded, err := Decode(text, pageType)
			return err == nil && value.Equal(page, decoded)
		},
		gen.Int64(),
		gen.AlphaString(),
		gen.Float64Range(-1e9, 1e9),
		gen.Bool(),
	))

	properties.Property("synthesized values round trip", prop.ForAll(
		func(depth int) bool {
			nested := rowType()
			for i := 0; i < depth; i++ {
				nested = descriptor.NewCollection("java.util.List", nested)
			}
			sample := synth.New().Synthesize(nested)
			text, err := Encode(sample)
			if err != nil {
				return false
			}
			decoded, err := Decode(text, nested)
			return err == nil && value.Equal(sample, decoded)
		},
		gen.IntRange(0, 6),
	))
	properties.TestingRun(t)
}

func TestInfer(t *testing.T) {
	actual, err := Infer([]byte(`{"class":"com.example.Row","id":1,"ratio":0.5,"tags":["a",null],"ok":true}`))
	require.Nil(t, err)
	assert.Equal(t, "com.example.Row", actual.Class)
	assert.Equal(t, []string{"id", "ratio", "tags", "ok"}, []string{actual.Fields[0].Name, actual.Fields[1].Name, actual.Fields[2].Name, actual.Fields[3].Name})
	assert.Equal(t, int64(1), actual.Field("id").Leaf)
	assert.Equal(t, 0.5, actual.Field("ratio").Leaf)
	assert.True(t, actual.Field("tags").Items[1].Null)
	assert.Equal(t, true, actual.Field("ok").Leaf)

	encoded, err := Encode(actual)
	require.Nil(t, err)
	assert.Equal(t, `{"class":"com.example.Row","id":1,"ratio":0.5,"tags":["a",null],"ok":true}`, string(encoded))

	_, err = Infer([]byte(`{"a":}`))
	assert.NotNil(t, err)
}
