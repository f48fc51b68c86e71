package value

// Equal reports deep equality. Numbers compare by numeric value, so 1 and
// 1.0 are equal; object comparison ignores key order.
func Equal(a, b Value) bool {
	ta, tb := Classify(a), Classify(b)
	if ta != tb {
		return false
	}

	switch ta {
	case TypeNull:
		return true
	case TypeBoolean:
		return a.(Bool) == b.(Bool)
	case TypeNumber:
		na, nb := a.(Number), b.(Number)
		return na == nb || na.Float64() == nb.Float64()
	case TypeString:
		return a.(String) == b.(String)
	case TypeArray:
		aa, ab := a.(Array), b.(Array)
		if len(aa) != len(ab) {
			return false
		}
		for i := range aa {
			if !Equal(aa[i], ab[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		oa, ob := a.(*Object), b.(*Object)
		if oa.Len() != ob.Len() {
			return false
		}
		for _, k := range oa.keys {
			vb, ok := ob.fields[k]
			if !ok || !Equal(oa.fields[k], vb) {
				return false
			}
		}
		return true
	}
	return false
}
