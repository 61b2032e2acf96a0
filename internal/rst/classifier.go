package rst

import "fmt"

// Classifier is the external collaborator the beam search and oracle
// drivers consult for per-action scores. A trained implementation typically
// wraps a sparse linear model (logistic regression, a maxent classifier);
// this package only depends on the two operations below.
//
// Implementations must be safe for concurrent use: a single loaded
// Classifier may be shared by reference across worker goroutines parsing
// distinct documents.
type Classifier interface {
	// Labels returns the canonical, ordered list of action-label strings
	// this classifier was trained against, each of the form "<type>:<label>"
	// (e.g. "S:text", "B:ROOT", "U:nucleus:span"). Score's returned
	// distribution is aligned index-for-index with this list.
	Labels() []string

	// Score returns a probability (or log-probability; Beam log-converts it
	// unless Config.ScoresAreLogProbabilities is set, then adds it to the
	// state's score) for every label in Labels(), given the sparse feature
	// counts feats.
	Score(feats *FeatureSet) ([]float64, error)
}

// ScoredAction pairs a candidate action with the log-score the classifier
// assigned it, the unit ExtractFeatures-driven candidate generation and the
// beam search driver pass around internally.
type ScoredAction struct {
	Action Action
	Score  float64
}

// scoredActions asks clf to score feats, aligns each returned probability
// with its label, parses the label back into an Action, and converts the
// probability to a log-score with logFn unless logProbs says the classifier
// already returns log-scores.
func scoredActions(clf Classifier, feats *FeatureSet, logProbs bool, logFn func(float64) float64) ([]ScoredAction, error) {
	labels := clf.Labels()
	probs, err := clf.Score(feats)
	if err != nil {
		return nil, fmt.Errorf("rst: classifier scoring failed: %w", err)
	}
	if len(probs) != len(labels) {
		return nil, fmt.Errorf("rst: classifier returned %d scores for %d labels", len(probs), len(labels))
	}

	out := make([]ScoredAction, 0, len(labels))
	for i, label := range labels {
		act, err := ParseActionLabel(label)
		if err != nil {
			return nil, err
		}
		score := probs[i]
		if !logProbs {
			score = logFn(score)
		}
		out = append(out, ScoredAction{Action: act, Score: score})
	}
	return out, nil
}

// StubClassifier is a fixed-table test double: it always returns the same
// score for an action label regardless of features, falling back to
// DefaultScore for any label not present in Scores. It exists for use in
// tests and as the placeholder classifier cmd/rstparse-serve starts with; it
// is not a trained model.
type StubClassifier struct {
	LabelList []string
	Scores    map[string]float64
	// DefaultScore is used for any label in LabelList not present in Scores.
	DefaultScore float64
}

// NewStubClassifier builds a StubClassifier over the given labels, scoring
// every one at DefaultScore until overridden via Scores.
func NewStubClassifier(labels []string, defaultScore float64) *StubClassifier {
	return &StubClassifier{
		LabelList:    labels,
		Scores:       make(map[string]float64),
		DefaultScore: defaultScore,
	}
}

// Labels implements Classifier.
func (s *StubClassifier) Labels() []string {
	return s.LabelList
}

// Score implements Classifier, ignoring feats entirely.
func (s *StubClassifier) Score(feats *FeatureSet) ([]float64, error) {
	out := make([]float64, len(s.LabelList))
	for i, l := range s.LabelList {
		if v, ok := s.Scores[l]; ok {
			out[i] = v
		} else {
			out[i] = s.DefaultScore
		}
	}
	return out, nil
}
