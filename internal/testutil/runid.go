package testutil

// FixedRunID is the run id used by golden reports.
const FixedRunID = "run-00000000"

// FixedRunIDGenerator returns the same run id every time, so repeated
// audits of one scenario produce byte-identical reports.
type FixedRunIDGenerator struct {
	ID string
}

// NewFixedRunIDGenerator returns a generator for FixedRunID.
func NewFixedRunIDGenerator() *FixedRunIDGenerator {
	return &FixedRunIDGenerator{ID: FixedRunID}
}

// Generate returns the configured id.
func (g *FixedRunIDGenerator) Generate() string {
	return g.ID
}
