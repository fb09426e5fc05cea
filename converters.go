package flowcore

import "errors"

// FromAny adapts a plain Go value into an AsyncIterator: a []T pushes each
// element in order then finishes; a <-chan T pushes every value received
// until the channel closes then finishes; a value of type T is pushed as a
// single element followed by Finish; a value of any other type yields an
// iterator that finishes without emitting. The returned iterator is already
// running its own producer goroutine.
//
// Grounded on the teacher's Map (map.go): "adapt an input shape into the
// Workers engine's task/result vocabulary" is the same move FromAny makes
// for the iterator vocabulary instead of the task vocabulary.
func FromAny[T any](source any) *AsyncIterator[T] {
	it := NewAsyncIterator[T](WithBufferSize(16))

	switch v := source.(type) {
	case []T:
		go func() {
			for _, item := range v {
				it.Push(NextStamp(), item)
			}
			it.Finish()
		}()
	case <-chan T:
		go func() {
			for item := range v {
				it.Push(NextStamp(), item)
			}
			it.Finish()
		}()
	case chan T:
		go func() {
			for item := range v {
				it.Push(NextStamp(), item)
			}
			it.Finish()
		}()
	default:
		if item, ok := source.(T); ok {
			go func() {
				it.Push(NextStamp(), item)
				it.Finish()
			}()
		} else {
			go it.Finish()
		}
	}

	return it
}

// EachValueFrom drains it to completion, calling fn for every value in
// arrival order. It returns errors.Join of every fn error encountered plus
// it's terminal error, or nil if it completed gracefully and every fn call
// succeeded.
//
// Grounded on the teacher's RunAll (run_all.go): drain a channel to
// completion, collecting into a slice/aggregate error via errors.Join,
// generalized here from "drain into a slice" to "drain through a
// callback", matching ForEach's (foreach.go) "apply fn to each item"
// shape more closely than RunAll's "collect results" shape.
func EachValueFrom[T any](it *AsyncIterator[T], fn func(T) error) error {
	var errs []error
	for {
		res := it.Next()
		if res.Done {
			if res.Err != nil {
				errs = append(errs, res.Err)
			}
			return errors.Join(errs...)
		}
		if err := fn(res.Value); err != nil {
			errs = append(errs, err)
		}
	}
}

// FirstValueFrom pulls exactly one value from it, then stops it. If it
// completes (gracefully or with an error) before producing a value,
// FirstValueFrom returns ErrEmptySource (or the terminal error, if one
// occurred) instead.
//
// Grounded on the teacher's RunAll in the same way ElementAt
// (operators_last.go) is grounded on it: "wait for the first completion,
// then stop caring about the rest".
func FirstValueFrom[T any](it *AsyncIterator[T]) (T, error) {
	res := it.Next()
	it.Stop()

	var zero T
	if res.Done {
		if res.Err != nil {
			return zero, res.Err
		}
		return zero, ErrEmptySource
	}
	return res.Value, nil
}
