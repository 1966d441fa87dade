package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_Candidates(t *testing.T) {
	var testCases = []struct {
		description string
		context     *Context
		name        string
		expect      []string
	}{
		{
			description: "simple name without context",
			context:     &Context{},
			name:        "Row",
			expect:      []string{"java.lang.Row", "Row"},
		},
		{
			description: "enclosing classes before imports and package",
			context: &Context{
				Package: "com.example",
				Imports: []string{"com.other.Row"},
				Class:   "com.example.Service$Request",
			},
			name: "Row",
			expect: []string{
				"com.example.Service$Request$Row", "com.example.Service.Request.Row",
				"com.example.Service$Row", "com.example.Service.Row",
				"com.other.Row",
				"com.example.Row",
				"java.lang.Row", "Row",
			},
		},
		{
			description: "qualified inner class dollar form",
			context:     &Context{},
			name:        "com.example.Outer$Inner",
			expect:      []string{"com.example.Outer$Inner", "com.example.Outer.Inner"},
		},
		{
			description: "qualified inner class dotted form",
			context:     &Context{},
			name:        "com.example.Outer.Inner",
			expect:      []string{"com.example.Outer.Inner", "com.example.Outer$Inner"},
		},
		{
			description: "relative inner class via import",
			context:     &Context{Imports: []string{"com.example.Outer"}},
			name:        "Outer.Inner",
			expect:      []string{"Outer.Inner", "Outer$Inner", "com.example.Outer.Inner", "com.example.Outer$Inner"},
		},
		{
			description: "wildcard import",
			context:     &Context{Imports: []string{"com.example.*"}},
			name:        "Row",
			expect:      []string{"com.example.Row", "java.lang.Row", "Row"},
		},
	}
	for _, testCase := range testCases {
		actual := Normalize(testCase.context).Candidates(testCase.name)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestNormalize(t *testing.T) {
	actual := Normalize(&Context{
		Class:   " com.example.UserService ",
		Imports: []string{"import com.example.dto.Row;", "import static com.example.Util.parse;", " "},
	})
	assert.Equal(t, "com.example", actual.Package)
	assert.Equal(t, []string{"com.example.dto.Row"}, actual.Imports)
	assert.Equal(t, []string{"com.example.UserService"}, actual.Enclosing())
	assert.NotNil(t, Normalize(nil))
}
