package e2e

import (
	"testing"
)

func TestBuildCorpus_Size(t *testing.T) {
	c := BuildCorpus(100)
	if len(c.Topics) != 100 {
		t.Errorf("expected 100 topics, got %d", len(c.Topics))
	}
	if got := len(BuildCorpus(1000).Topics); got != 100 {
		t.Errorf("corpus should be capped at 100 known topics, got %d", got)
	}
}

func TestBuildCorpus_QueryTestCases(t *testing.T) {
	c := BuildCorpus(100)
	if len(c.TestCases) != 50 {
		t.Fatalf("expected 50 query test cases, got %d", len(c.TestCases))
	}
	seen := make(map[string]bool)
	for i, tc := range c.TestCases {
		if tc.Query == "" {
			t.Errorf("test case %d: empty query", i)
		}
		if seen[tc.TopicID] {
			t.Errorf("test case %d: topic %s targeted twice", i, tc.TopicID)
		}
		seen[tc.TopicID] = true
		topic, ok := c.Topic(tc.TopicID)
		if !ok {
			t.Errorf("test case %d: topic %q not in corpus", i, tc.TopicID)
			continue
		}
		if !containsPhrase(topic, tc.Query) {
			t.Errorf("topic %q (title=%q) does not contain query phrase %q", tc.TopicID, topic.Title, tc.Query)
		}
	}
}

func TestCorpus_Texts(t *testing.T) {
	c := BuildCorpus(5)
	texts := c.Texts()
	if len(texts) != 5 {
		t.Fatalf("expected 5 texts, got %d", len(texts))
	}
	for i, text := range texts {
		if text != c.Topics[i].Title+". "+c.Topics[i].Content {
			t.Errorf("text %d = %q", i, text)
		}
	}
}

func TestContainsPhrase(t *testing.T) {
	tests := []struct {
		topic   Topic
		phrase  string
		contain bool
	}{
		{Topic{Title: "Sick Days", Content: "A sick day certificate is needed."}, "certificate", true},
		{Topic{Title: "Sick Days", Content: "A sick day certificate is needed."}, "parental leave", false},
		{Topic{Title: "Annual Leave", Content: "Days carry over."}, "annual leave", true},
	}
	for i, tt := range tests {
		got := containsPhrase(tt.topic, tt.phrase)
		if got != tt.contain {
			t.Errorf("test %d: containsPhrase(%q) = %v, want %v", i, tt.phrase, got, tt.contain)
		}
	}
}
