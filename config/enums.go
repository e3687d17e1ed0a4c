package config

//go:generate go tool go-enum --marshal --nocase --names --values

// InputFormat tells how sources are treated.
// ENUM(auto, css, html, xhtml)
type InputFormat int

// Pipeline is transformation applied to declarations.
// ENUM(expand, contract, roundtrip)
type Pipeline int

// Expands reports whether pipeline starts with shorthand expansion.
func (p Pipeline) Expands() bool {
	return p == PipelineExpand || p == PipelineRoundtrip
}

// Contracts reports whether pipeline ends with shorthand creation.
func (p Pipeline) Contracts() bool {
	return p == PipelineContract || p == PipelineRoundtrip
}
