package value

// Equal returns true if both value trees are equal: exact on leaves, order preserving on items, entries and fields
func Equal(x, y *Value) bool {
	if x == nil || y == nil {
		return x == y
	}
	if x.Null || y.Null {
		return x.Null == y.Null
	}
	if x.Kind != y.Kind || x.Class != y.Class {
		return false
	}
	switch {
	case x.Items != nil || y.Items != nil:
		if len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case x.Entries != nil || y.Entries != nil:
		if len(x.Entries) != len(y.Entries) {
			return false
		}
		for i := range x.Entries {
			if !Equal(x.Entries[i].Key, y.Entries[i].Key) || !Equal(x.Entries[i].Value, y.Entries[i].Value) {
				return false
			}
		}
		return true
	case x.Fields != nil || y.Fields != nil:
		if len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name || !Equal(x.Fields[i].Value, y.Fields[i].Value) {
				return false
			}
		}
		return true
	}
	return x.Leaf == y.Leaf && x.Raw == y.Raw
}
