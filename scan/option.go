package scan

// Option customizes a Scanner.
type Option func(*Scanner)

// WithResolver overrides the default candidate discovery.
func WithResolver(resolver Resolver) Option {
	return func(s *Scanner) {
		s.resolver = resolver
	}
}
