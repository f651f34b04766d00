package artifacts

import (
	"errors"
	"fmt"
)

// Artifact names the file a LoadError refers to.
type Artifact string

const (
	ArtifactVectorizer Artifact = "vectorizer"
	ArtifactClassifier Artifact = "classifier"
)

// Reason classifies why an artifact could not be loaded.
type Reason string

const (
	ReasonMissing         Reason = "missing"
	ReasonUnreadable      Reason = "unreadable"
	ReasonCorrupt         Reason = "corrupt"
	ReasonVersionMismatch Reason = "version_mismatch"
)

// ErrNotLoaded matches any LoadError via errors.Is.
var ErrNotLoaded = errors.New("artifacts not loaded")

// LoadError reports which artifact failed to load and why.
// It is terminal for the Loader that produced it.
type LoadError struct {
	Artifact Artifact
	Path     string
	Reason   Reason
	Err      error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s artifact %q: %s", e.Artifact, e.Path, e.Reason)
	}
	return fmt.Sprintf("load %s artifact %q: %s: %v", e.Artifact, e.Path, e.Reason, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrNotLoaded }
