package token

// Enhancer is an optional hook run against a freshly built access token
// before it is persisted. Implementations mutate the token's additional
// information in place.
type Enhancer interface {
	Enhance(t *AccessToken) error
}

// NoopEnhancer is the default Enhancer.
type NoopEnhancer struct{}

func (NoopEnhancer) Enhance(*AccessToken) error { return nil }
