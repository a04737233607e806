package engine

// KeyTracker follows container nesting for token drivers whose underlying
// decoder reports object keys and string values alike.
type KeyTracker struct {
	stack []frame
}

// Open records the start of an object or array.
func (k *KeyTracker) Open(object bool) {
	if object {
		k.stack = append(k.stack, frame{kind: kindObject, expectingKey: true})
		return
	}
	k.stack = append(k.stack, frame{kind: kindArray})
}

// Close records the end of the innermost container, which is itself a value
// of its parent.
func (k *KeyTracker) Close() {
	if n := len(k.stack); n > 0 {
		k.stack = k.stack[:n-1]
	}
	k.ValueDone()
}

// Key reports whether the next string is an object key and, if so, moves the
// enclosing object on to expecting its value.
func (k *KeyTracker) Key() bool {
	n := len(k.stack)
	if n == 0 || k.stack[n-1].kind != kindObject || !k.stack[n-1].expectingKey {
		return false
	}
	k.stack[n-1].expectingKey = false
	return true
}

// ValueDone records that a scalar value was consumed.
func (k *KeyTracker) ValueDone() {
	if n := len(k.stack); n > 0 && k.stack[n-1].kind == kindObject {
		k.stack[n-1].expectingKey = true
	}
}
