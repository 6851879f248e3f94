package ingestion

import (
	"path/filepath"
	"strings"
)

// TopicDefault is assigned when no classification rule matches.
const TopicDefault = "general"

// TopicClassifier assigns a topic label to a document based on where it
// lives and what it is called. Implementations must be deterministic: the
// same path always yields the same topic.
type TopicClassifier interface {
	Classify(path string) string
}

// topicRule matches a document when its parent folder name contains any of
// the folder fragments, or its file name contains any of the file fragments.
type topicRule struct {
	topic   string
	folders []string
	files   []string
}

// pathRules is evaluated in order; the first matching rule wins. Order
// matters — e.g. a visa form filed under "tax" is taxation, not immigration.
var pathRules = []topicRule{
	{topic: "banking", folders: []string{"bank"}, files: []string{"account"}},
	{topic: "housing", folders: []string{"housing"}, files: []string{"rent", "apartment"}},
	{topic: "immigration", folders: []string{"immigration"}, files: []string{"visa", "opt", "f1"}},
	{topic: "taxation", folders: []string{"tax"}, files: []string{"irs", "social secur"}},
	{topic: "driving", folders: []string{"driver", "driving"}, files: []string{"dmv"}},
	{topic: "health", folders: []string{"health"}, files: []string{"medical", "insurance"}},
	{topic: "faq", folders: []string{"faq"}, files: []string{"frequently", "guide"}},
	{topic: "nepali_info", folders: []string{"nepali"}, files: []string{"consulate", "camp"}},
	{topic: "student_life", files: []string{"student", "university"}},
	{topic: "asylum", files: []string{"asylum"}},
	{topic: "green_card", files: []string{"green card"}},
}

// PathClassifier classifies documents by parent-folder and file-name
// keywords. It is the zero-dependency default; swap in a different
// TopicClassifier if the corpus layout changes.
type PathClassifier struct{}

// NewPathClassifier returns a ready-to-use PathClassifier.
func NewPathClassifier() *PathClassifier { return &PathClassifier{} }

// Classify returns the topic for the document at path. Matching is
// case-insensitive over the immediate parent folder name and the file name.
func (c *PathClassifier) Classify(path string) string {
	folder := strings.ToLower(filepath.Base(filepath.Dir(path)))
	file := strings.ToLower(filepath.Base(path))

	for _, rule := range pathRules {
		for _, frag := range rule.folders {
			if strings.Contains(folder, frag) {
				return rule.topic
			}
		}
		for _, frag := range rule.files {
			if strings.Contains(file, frag) {
				return rule.topic
			}
		}
	}

	return TopicDefault
}
