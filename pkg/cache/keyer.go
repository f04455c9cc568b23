package cache

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey names the composition result for an input document.
	ResultKey(inputHash string, opts ResultKeyOpts) string

	// ArtifactKey names one rendered artifact of a result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts are the composer settings that change a result without
// appearing in the input document.
type ResultKeyOpts struct {
	PaddingRatio float64 `json:"padding_ratio"`
	Fonts        string  `json:"fonts,omitempty"`
}

// ArtifactKeyOpts identify one artifact of a result.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	EmbedFonts bool   `json:"embed_fonts,omitempty"`
	Overlaps   bool   `json:"overlaps,omitempty"`
}

// DefaultKeyer produces "result:<hash>" and "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey("result", inputHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}
