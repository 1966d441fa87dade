package resolver

import "github.com/viant/invoke/descriptor"

type builtin struct {
	name  string
	kind  descriptor.Kind
	arity int
}

var builtins = map[string]*builtin{}

func registerBuiltin(pkg string, kind descriptor.Kind, arity int, names ...string) {
	for _, name := range names {
		item := &builtin{name: pkg + "." + name, kind: kind, arity: arity}
		builtins[name] = item
		builtins[item.name] = item
	}
}

func init() {
	registerBuiltin("java.util", descriptor.KindCollection, 1, "List", "ArrayList", "LinkedList", "Collection", "Set", "HashSet",
		"LinkedHashSet", "TreeSet", "SortedSet", "Queue", "Deque", "ArrayDeque")
	registerBuiltin("java.lang", descriptor.KindCollection, 1, "Iterable")
	registerBuiltin("java.util.concurrent", descriptor.KindCollection, 1, "CopyOnWriteArrayList")
	registerBuiltin("java.util", descriptor.KindMap, 2, "Map", "HashMap", "LinkedHashMap", "TreeMap", "SortedMap", "Hashtable")
	registerBuiltin("java.util.concurrent", descriptor.KindMap, 2, "ConcurrentMap", "ConcurrentHashMap")
	//Optional is transparent, resolves to its type argument
	registerBuiltin("java.util", descriptor.KindUnknown, 1, "Optional")
}

func lookupBuiltin(name string) *builtin {
	return builtins[name]
}
