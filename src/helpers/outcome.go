package helpers

// Outcome is the tagged result of one fetch attempt. Callers switch on Ok() instead of
// relying on error propagation, so the source that finally served a value stays visible.
type Outcome[T any] struct {
	Source string
	Value  T
	Err    error
}

func Success[T any](source string, value T) Outcome[T] {
	return Outcome[T]{Source: source, Value: value}
}

func Failure[T any](source string, err error) Outcome[T] {
	return Outcome[T]{Source: source, Err: err}
}

func (o Outcome[T]) Ok() bool {
	return o.Err == nil
}
