package jsonvalue

// DeepMerge layers override on top of base and returns the result.
//
// Arrays in override replace the base value wholesale. When both sides are
// objects their keys are unioned and merged recursively. Any other pairing is
// won by override. A nil override returns base unchanged; a nil base returns
// override. Neither input is modified.
func DeepMerge(base, override Value) Value {
	if override == nil {
		return base
	}
	if base == nil {
		return override
	}

	switch ov := override.(type) {
	case Array:
		return ov
	case Object:
		bv, ok := base.(Object)
		if !ok {
			return ov
		}
		merged := make(Object, len(bv)+len(ov))
		for k, v := range bv {
			merged[k] = v
		}
		for k, v := range ov {
			merged[k] = DeepMerge(bv[k], v)
		}
		return merged
	case String, Number, Bool, Null:
		return ov
	default:
		return ov
	}
}

// MergeChain folds DeepMerge left to right over layers, each result feeding
// the next call as base.
func MergeChain(layers ...Value) Value {
	var result Value
	for _, layer := range layers {
		result = DeepMerge(result, layer)
	}
	return result
}
