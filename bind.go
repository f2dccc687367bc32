package xmlbind

// Bind scans the remaining stream for the first start element whose registered
// builder produces a T-assignable object, binds it through the construction
// engine, and returns once the element's end tag is confirmed at the entry
// depth. A stream that ends without a match returns (zero, false, nil):
// absence is not a failure. Elements whose builders produce other types are
// passed over without consuming their subtrees.
func Bind[T any](r *Reader) (T, bool, error) {
	var zero T
	if err := r.guard(); err != nil {
		return zero, false, err
	}
	for {
		kind, err := r.cursor.NextTag()
		if err != nil {
			return zero, false, r.fail(err)
		}
		switch kind {
		case KindEndDocument:
			return zero, false, nil
		case KindStartElement:
			name, err := r.cursor.Name()
			if err != nil {
				return zero, false, err
			}
			builder, ok := r.registry.LookupBuilderName(name)
			if !ok {
				continue
			}
			typed, ok, err := createAs[T](r, builder, name)
			if err != nil {
				return zero, false, err
			}
			if !ok {
				continue
			}
			built, ok, err := r.buildObject(any(typed), name, builder)
			if err != nil || !ok {
				return zero, false, err
			}
			return built.(T), true, nil
		}
	}
}
