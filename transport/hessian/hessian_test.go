package hessian

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/value"
)

func roundTrip(t *testing.T, v interface{}) interface{} {
	encoder := NewEncoder()
	require.Nil(t, encoder.Encode(v))
	actual, err := NewDecoder(encoder.Bytes()).Decode()
	require.Nil(t, err)
	return actual
}

type account struct {
	ID     int32 `hessian:"id"`
	Name   string
	secret string
}

func (a *account) JavaClassName() string {
	return "com.example.Account"
}

type amount string

func (a amount) String() string {
	return string(a)
}

func TestEncoder_Scalars(t *testing.T) {
	var testCases = []struct {
		description string
		input       interface{}
		expect      interface{}
	}{
		{description: "null", input: nil, expect: nil},
		{description: "true", input: true, expect: true},
		{description: "int zero", input: int32(0), expect: int32(0)},
		{description: "int -2048", input: int32(-2048), expect: int32(-2048)},
		{description: "int max", input: int32(math.MaxInt32), expect: int32(math.MaxInt32)},
		{description: "long 15", input: int64(15), expect: int64(15)},
		{description: "long 32-bit", input: int64(math.MinInt32), expect: int64(math.MinInt32)},
		{description: "long max", input: int64(math.MaxInt64), expect: int64(math.MaxInt64)},
		{description: "double zero", input: 0.0, expect: 0.0},
		{description: "double short", input: 1000.0, expect: 1000.0},
		{description: "double full", input: math.Pi, expect: math.Pi},
		{description: "short string", input: "hello", expect: "hello"},
		{description: "utf8 string", input: "zażółć 日本", expect: "zażółć 日本"},
		{description: "long string", input: strings.Repeat("ab", 3000), expect: strings.Repeat("ab", 3000)},
		{description: "binary", input: []byte{1, 2, 3}, expect: []byte{1, 2, 3}},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, roundTrip(t, testCase.input), testCase.description)
	}
}

func TestEncoder_Sequence(t *testing.T) {
	encoder := NewEncoder()
	require.Nil(t, encoder.Encode("2.0.2", int32(3), int64(4)))
	decoder := NewDecoder(encoder.Bytes())
	version, err := decoder.DecodeString()
	require.Nil(t, err)
	assert.Equal(t, "2.0.2", version)
	for _, expect := range []int64{3, 4} {
		actual, err := decoder.DecodeInt()
		require.Nil(t, err)
		assert.Equal(t, expect, actual)
	}
	_, err = decoder.Decode()
	assert.NotNil(t, err)
}

func TestEncoder_Containers(t *testing.T) {
	list, ok := Items(roundTrip(t, []interface{}{int32(1), "a", nil, []interface{}{true}}))
	require.True(t, ok)
	require.Len(t, list, 4)
	assert.Equal(t, int32(1), list[0])
	assert.Nil(t, list[2])
	nested, ok := Items(list[3])
	require.True(t, ok)
	assert.Equal(t, []interface{}{true}, nested)

	typed, ok := Items(roundTrip(t, []string{"com.example.Row"}))
	require.True(t, ok)
	assert.Equal(t, []interface{}{"com.example.Row"}, typed)

	keys, values, ok := entries(roundTrip(t, map[string]interface{}{"b": int64(2), "a": int64(1)}))
	require.True(t, ok)
	assert.Equal(t, []interface{}{"a", "b"}, keys)
	assert.Equal(t, []interface{}{int64(1), int64(2)}, values)

	attachments := Attachments(roundTrip(t, map[string]string{"path": "com.example.Svc", "interface": "com.example.Svc"}))
	assert.Equal(t, map[string]string{"path": "com.example.Svc", "interface": "com.example.Svc"}, attachments)

	date := time.UnixMilli(1700000000123)
	decoded, ok := roundTrip(t, date).(time.Time)
	require.True(t, ok)
	assert.True(t, date.Equal(decoded))
}

func TestValueConversion(t *testing.T) {
	statusType := &descriptor.Descriptor{Kind: descriptor.KindEnum, Name: "com.example.Status", EnumValues: []string{"ACTIVE"}}
	rowType := &descriptor.Descriptor{Kind: descriptor.KindComposite, Name: "com.example.Row", Fields: []*descriptor.Field{
		{Name: "id", Type: descriptor.NewScalar("int")},
		{Name: "amount", Type: descriptor.NewScalar("double")},
		{Name: "status", Type: statusType},
		{Name: "tags", Type: descriptor.NewCollection("java.util.List", descriptor.NewScalar("String"))},
	}}
	row := value.NewComposite(
		&value.Field{Name: "id", Value: value.NewLeaf(descriptor.KindPrimitive, int64(7))},
		&value.Field{Name: "amount", Value: value.NewLeaf(descriptor.KindPrimitive, 2.5)},
		&value.Field{Name: "status", Value: value.NewLeaf(descriptor.KindEnum, "ACTIVE")},
		&value.Field{Name: "tags", Value: value.NewCollection(value.NewLeaf(descriptor.KindString, "a"))},
	)

	native, err := FromValue(row, rowType, false)
	require.Nil(t, err)
	nativeMap, ok := native.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int32(7), nativeMap["id"])
	assert.Equal(t, map[string]interface{}{"name": "ACTIVE"}, nativeMap["status"])
	assert.NotContains(t, nativeMap, "class")

	generic, err := FromValue(row, rowType, true)
	require.Nil(t, err)
	genericMap, ok := generic.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "com.example.Row", genericMap["class"])
	assert.Equal(t, "ACTIVE", genericMap["status"])

	for _, encoded := range []interface{}{native, generic} {
		actual, err := ToValue(roundTrip(t, encoded), rowType)
		require.Nil(t, err)
		actual.Class = ""
		assert.True(t, value.Equal(row, actual))
	}

	inferred, err := ToValue(roundTrip(t, generic), nil)
	require.Nil(t, err)
	assert.Equal(t, "com.example.Row", inferred.Class)
	assert.Equal(t, int64(7), inferred.Field("id").Leaf)
	assert.Nil(t, inferred.Field("class"))

	raw, err := FromValue(&value.Value{Kind: descriptor.KindUnknown, Raw: `{"a":[1,"b"]}`}, nil, false)
	require.Nil(t, err)
	assert.Equal(t, map[string]interface{}{"a": []interface{}{int64(1), "b"}}, raw)

	_, err = ToValue("x", descriptor.NewScalar("int"))
	assert.NotNil(t, err)
}

func TestFromValue_ErasedComposites(t *testing.T) {
	rowType := &descriptor.Descriptor{Kind: descriptor.KindComposite, Name: "com.example.Row", Fields: []*descriptor.Field{
		{Name: "id", Type: descriptor.NewScalar("int")},
	}}
	rows := value.NewCollection(value.NewComposite(&value.Field{Name: "id", Value: value.NewLeaf(descriptor.KindPrimitive, int64(1))}))
	var testCases = []struct {
		description string
		descriptor  *descriptor.Descriptor
		asMap       bool
		expectErr   bool
	}{
		{description: "list element is erased", descriptor: descriptor.NewCollection("java.util.List", rowType), expectErr: true},
		{description: "array element keeps class", descriptor: &descriptor.Descriptor{Kind: descriptor.KindCollection, Array: true, Elem: rowType}},
		{description: "generic form carries class", descriptor: descriptor.NewCollection("java.util.List", rowType), asMap: true},
	}
	for _, testCase := range testCases {
		_, err := FromValue(rows, testCase.descriptor, testCase.asMap)
		if !testCase.expectErr {
			assert.Nil(t, err, testCase.description)
			continue
		}
		var erased *ErasedTypeError
		assert.True(t, errors.As(err, &erased), testCase.description)
	}
}

func TestFromValue_ClassField(t *testing.T) {
	rowType := &descriptor.Descriptor{Kind: descriptor.KindComposite, Name: "com.example.Row", Fields: []*descriptor.Field{
		{Name: "class", Type: descriptor.NewScalar("String")},
	}}
	row := value.NewComposite(&value.Field{Name: "class", Value: value.NewLeaf(descriptor.KindString, "gold")})
	actual, err := FromValue(row, rowType, true)
	require.Nil(t, err)
	assert.Equal(t, map[string]interface{}{"class": "gold"}, actual)
}

func TestToValue_GoValues(t *testing.T) {
	actual, err := ToValue(&account{ID: 3, Name: "bob", secret: "x"}, nil)
	require.Nil(t, err)
	assert.Equal(t, "com.example.Account", actual.Class)
	assert.Equal(t, []string{"id", "name"}, []string{actual.Fields[0].Name, actual.Fields[1].Name})
	assert.Equal(t, int64(3), actual.Field("id").Leaf)

	text, err := ToValue(amount("12.50"), descriptor.NewScalar("String"))
	require.Nil(t, err)
	assert.Equal(t, "12.50", text.Leaf)

	ints, err := ToValue([]int16{1, 2}, descriptor.NewCollection("java.util.List", descriptor.NewScalar("long")))
	require.Nil(t, err)
	assert.True(t, value.Equal(value.NewCollection(
		value.NewLeaf(descriptor.KindPrimitive, int64(1)),
		value.NewLeaf(descriptor.KindPrimitive, int64(2)),
	), ints))
}

func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	properties.Property("ints and longs survive encoding", prop.ForAll(
		func(i int32, l int64) bool {
			encoder := NewEncoder()
			if encoder.Encode(i, l) != nil {
				return false
			}
			decoder := NewDecoder(encoder.Bytes())
			first, err1 := decoder.DecodeInt()
			second, err2 := decoder.DecodeInt()
			return err1 == nil && err2 == nil && first == int64(i) && second == l
		},
		gen.Int32(),
		gen.Int64(),
	))
	properties.Property("doubles survive encoding", prop.ForAll(
		func(f float64) bool {
			encoder := NewEncoder()
			if encoder.Encode(f) != nil {
				return false
			}
			actual, err := NewDecoder(encoder.Bytes()).Decode()
			return err == nil && actual == f
		},
		gen.Float64(),
	))
	properties.Property("long values convert back from decoded form", prop.ForAll(
		func(l int64) bool {
			leaf := value.NewLeaf(descriptor.KindPrimitive, l)
			longType := descriptor.NewScalar("long")
			raw, err := FromValue(leaf, longType, false)
			if err != nil {
				return false
			}
			encoder := NewEncoder()
			if encoder.Encode(raw) != nil {
				return false
			}
			decoded, err := NewDecoder(encoder.Bytes()).Decode()
			if err != nil {
				return false
			}
			actual, err := ToValue(decoded, longType)
			return err == nil && value.Equal(leaf, actual)
		},
		gen.Int64(),
	))
	properties.Property("strings survive encoding", prop.ForAll(
		func(text string) bool {
			encoder := NewEncoder()
			if encoder.Encode(text) != nil {
				return false
			}
			actual, err := NewDecoder(encoder.Bytes()).DecodeString()
			return err == nil && actual == text
		},
		gen.AlphaString(),
	))
	properties.TestingRun(t)
}
