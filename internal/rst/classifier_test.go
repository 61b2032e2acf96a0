package rst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_StubClassifier_ScoresAndDefaults(t *testing.T) {
	clf := NewStubClassifier([]string{"S:text", "B:ROOT"}, -9.0)
	clf.Scores["S:text"] = -0.1

	assert.Equal(t, []string{"S:text", "B:ROOT"}, clf.Labels())

	scores, err := clf.Score(nil)
	assert.NoError(t, err)
	assert.Equal(t, []float64{-0.1, -9.0}, scores)
}

func Test_ScoredActions_ParsesLabelsAndKeepsLogScores(t *testing.T) {
	clf := NewStubClassifier([]string{"S:text", "B:ROOT"}, 0)
	clf.Scores["S:text"] = 0.5
	clf.Scores["B:ROOT"] = 0.25

	// scoredActions never inspects feats itself (that's the classifier's
	// job), and StubClassifier ignores it entirely, so nil is fine here.
	scored, err := scoredActions(clf, nil, true, nil)
	assert.NoError(t, err)
	assert.Len(t, scored, 2)
	assert.Equal(t, Action{Type: Shift, Label: "text"}, scored[0].Action)
	assert.Equal(t, 0.5, scored[0].Score)
	assert.Equal(t, Action{Type: Binary, Label: "ROOT"}, scored[1].Action)
	assert.Equal(t, 0.25, scored[1].Score)
}
