package extraction

// Strategy is one named attempt at reading a metric from a page.
type Strategy[T any] struct {
	Name string
	Run  func(Page) (T, bool)
}

// Chain is an ordered list of strategies, most specific first.
type Chain[T any] []Strategy[T]

// Evaluate runs the strategies in order and returns the first value found
// together with the name of the strategy that produced it. Later strategies
// are not run once one succeeds. On a complete miss it returns the zero
// value, an empty name and false.
func (c Chain[T]) Evaluate(p Page) (T, string, bool) {
	var zero T
	for _, s := range c {
		if v, ok := s.Run(p); ok {
			return v, s.Name, true
		}
	}
	return zero, "", false
}

// Normalizer turns a raw matched string into a value.
type Normalizer[T any] func(string) (T, bool)
