package resolver

import (
	"strings"
)

// Context represents name resolution context: declaring package, imports and enclosing class
type Context struct {
	Package string   `json:"package,omitempty" yaml:"package,omitempty"`
	Imports []string `json:"imports,omitempty" yaml:"imports,omitempty"`
	Class   string   `json:"class,omitempty" yaml:"class,omitempty"`
}

// Normalize trims and canonicalizes context fields
func Normalize(input *Context) *Context {
	if input == nil {
		return &Context{}
	}
	ret := &Context{
		Package: strings.TrimSuffix(strings.TrimSpace(input.Package), "."),
		Class:   strings.TrimSpace(input.Class),
	}
	for _, item := range input.Imports {
		item = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(item), ";"))
		item = strings.TrimSpace(strings.TrimPrefix(item, "import "))
		if item == "" || strings.HasPrefix(item, "static ") {
			continue
		}
		ret.Imports = append(ret.Imports, item)
	}
	if ret.Package == "" && ret.Class != "" {
		ret.Package = packageOf(ret.Class)
	}
	return ret
}

// Enclosing returns context class followed by its enclosing classes, innermost first
func (c *Context) Enclosing() []string {
	var result []string
	for class := c.Class; class != ""; class = enclosingOf(class) {
		result = append(result, class)
	}
	return result
}

// Candidates returns ordered lookup candidates for a type name
func (c *Context) Candidates(name string) []string {
	var result []string
	seen := map[string]bool{}
	add := func(candidates ...string) {
		for _, candidate := range candidates {
			if candidate == "" || seen[candidate] {
				continue
			}
			seen[candidate] = true
			result = append(result, candidate)
		}
	}
	qualified := strings.ContainsAny(name, ".$")
	if qualified {
		add(innerVariants(name)...)
	}
	head, tail := splitHead(name)
	if qualified && (head == "" || !isUpper(head[0])) {
		return result
	}
	for _, class := range c.Enclosing() {
		add(innerVariants(class + "$" + name)...)
	}
	for _, imported := range c.Imports {
		if !strings.HasSuffix(imported, ".*") && simpleName(imported) == head {
			add(innerVariants(imported + tail)...)
		}
	}
	for _, imported := range c.Imports {
		if strings.HasSuffix(imported, ".*") {
			add(innerVariants(strings.TrimSuffix(imported, "*") + name)...)
		}
	}
	if c.Package != "" {
		add(innerVariants(c.Package + "." + name)...)
	}
	if !qualified {
		add("java.lang."+name, name)
	}
	return result
}

// OnDemand returns candidates contributed by wildcard imports for an unqualified name
func (c *Context) OnDemand(name string) []string {
	if strings.ContainsAny(name, ".$") {
		return nil
	}
	var result []string
	for _, imported := range c.Imports {
		if strings.HasSuffix(imported, ".*") {
			result = append(result, strings.TrimSuffix(imported, "*")+name)
		}
	}
	return result
}

// innerVariants returns name followed by alternative inner class notations: Outer.Inner and Outer$Inner
func innerVariants(name string) []string {
	result := []string{name}
	if strings.Contains(name, "$") {
		result = append(result, strings.ReplaceAll(name, "$", "."))
	}
	segments := strings.Split(strings.ReplaceAll(name, "$", "."), ".")
	classStart := -1
	for i, segment := range segments {
		if segment != "" && isUpper(segment[0]) {
			classStart = i
			break
		}
	}
	if classStart != -1 && classStart < len(segments)-1 {
		conventional := strings.Join(segments[:classStart+1], ".") + "$" + strings.Join(segments[classStart+1:], "$")
		result = append(result, conventional)
	}
	if classStart == -1 {
		for k := 1; k < len(segments); k++ {
			split := len(segments) - k
			result = append(result, strings.Join(segments[:split], ".")+"$"+strings.Join(segments[split:], "$"))
		}
	}
	return dedupe(result)
}

func enclosingOf(class string) string {
	if idx := strings.LastIndex(class, "$"); idx != -1 {
		return class[:idx]
	}
	segments := strings.Split(class, ".")
	if len(segments) >= 2 {
		last, prev := segments[len(segments)-1], segments[len(segments)-2]
		if last != "" && prev != "" && isUpper(last[0]) && isUpper(prev[0]) {
			return strings.Join(segments[:len(segments)-1], ".")
		}
	}
	return ""
}

func packageOf(name string) string {
	name = strings.ReplaceAll(name, "$", ".")
	segments := strings.Split(name, ".")
	for i, segment := range segments {
		if segment != "" && isUpper(segment[0]) {
			return strings.Join(segments[:i], ".")
		}
	}
	if idx := strings.LastIndex(name, "."); idx != -1 {
		return name[:idx]
	}
	return ""
}

func splitHead(name string) (string, string) {
	if idx := strings.IndexAny(name, ".$"); idx != -1 {
		return name[:idx], name[idx:]
	}
	return name, ""
}

func simpleName(name string) string {
	if idx := strings.LastIndexAny(name, ".$"); idx != -1 {
		return name[idx+1:]
	}
	return name
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result = make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}
