package interfaces

// AnalysisService is the read-mostly façade over the curriculum analysis
// endpoints. Stateless beyond its own request/response cycle: no caching,
// no retry beyond the API client's default, no client-side repair of
// malformed responses.
type AnalysisService interface {
	AnalysisBackend
}
