package artifacts

// FormatV1 is the only artifact envelope version this build reads.
const FormatV1 = "smsclassifier/v1"

// envelope is the header shared by every artifact; the kind selects how the
// remaining fields are decoded.
type envelope struct {
	Format string `json:"format"`
	Kind   string `json:"kind"`
}
