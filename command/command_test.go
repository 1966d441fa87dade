package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/value"
)

func TestParseMethod(t *testing.T) {
	method, err := ParseMethod("com.example.UserService.find(java.util.List<com.example.Row> rows, int limit)")
	require.Nil(t, err)
	method.ReturnType = "com.example.Page"
	assert.Equal(t, "com.example.UserService", method.Service)
	assert.Equal(t, "find", method.Name)
	assert.Equal(t, []string{"java.util.List<com.example.Row>", "int"}, method.ParameterTypes)
	assert.Equal(t, "com.example.UserService.find", method.Key())
	assert.Equal(t, "com.example.Page com.example.UserService.find(java.util.List<com.example.Row> rows, int limit)", method.FullSignature())
}

func TestBuild(t *testing.T) {
	method := &Method{Service: "com.example.UserService", Name: "getUserById", ParameterTypes: []string{"java.lang.Long"}}
	var testCases = []struct {
		description string
		values      []*value.Value
		expectErr   bool
	}{
		{description: "matching arity", values: []*value.Value{value.NewLeaf(descriptor.KindPrimitive, int64(1))}},
		{description: "missing parameter", values: nil, expectErr: true},
		{description: "extra parameter", values: []*value.Value{value.NewNull(descriptor.KindPrimitive), value.NewNull(descriptor.KindPrimitive)}, expectErr: true},
	}
	for _, testCase := range testCases {
		request, err := Build(method, testCase.values)
		if testCase.expectErr {
			arityErr := &ArityMismatchError{}
			assert.True(t, errors.As(err, &arityErr), testCase.description)
			assert.Equal(t, 1, arityErr.Expected, testCase.description)
			assert.Nil(t, request, testCase.description)
			continue
		}
		require.Nil(t, err, testCase.description)
		assert.Equal(t, []string{"java.lang.Long"}, request.TypeNames(), testCase.description)
	}
}

func TestRequest_Text(t *testing.T) {
	row := value.NewComposite(
		&value.Field{Name: "id", Value: value.NewLeaf(descriptor.KindPrimitive, int64(123))},
		&value.Field{Name: "name", Value: value.NewLeaf(descriptor.KindString, "zhangsan")},
	)
	row.Class = "com.example.Query"
	method := &Method{Service: "com.example.CompanyApi", Name: "query", ParameterTypes: []string{"com.example.Query", "java.util.List<String>"}}
	request, err := Build(method, []*value.Value{row, value.NewCollection(value.NewLeaf(descriptor.KindString, "demo"))}, WithVersion("1.0.0"))
	require.Nil(t, err)

	text, err := request.Text(false)
	require.Nil(t, err)
	assert.Equal(t, `invoke com.example.CompanyApi.query({"class":"com.example.Query","id":123,"name":"zhangsan"},["demo"])`, text)

	text, err = request.Text(true)
	require.Nil(t, err)
	assert.Equal(t, `invoke com.example.CompanyApi.$invoke("query", new String[]{"com.example.Query", "java.util.List"}, new Object[]{{"class":"com.example.Query","id":123,"name":"zhangsan"},["demo"]})`, text)
	assert.Equal(t, "1.0.0", request.Version)
}

func TestWithDescriptors(t *testing.T) {
	method := &Method{Service: "S", Name: "m", ParameterTypes: []string{"int[]"}}
	elem := descriptor.NewScalar("int")
	array := descriptor.NewCollection("int[]", elem)
	array.Array = true
	request, err := Build(method, []*value.Value{value.NewCollection()}, WithDescriptors([]*descriptor.Descriptor{array}))
	require.Nil(t, err)
	assert.Equal(t, "int[]", request.Parameters[0].TypeName)
	assert.Same(t, array, request.Parameters[0].Descriptor)
}

func TestErasure(t *testing.T) {
	var testCases = []struct {
		input  string
		expect string
	}{
		{input: "int", expect: "int"},
		{input: "java.util.Map<String, List<Long>>", expect: "java.util.Map"},
		{input: "List<Row>[]", expect: "List[]"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Erasure(testCase.input), testCase.input)
	}
}
